package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/service"
	"github.com/Skotchmaster/shopit/internal/transport"
)

type OrdersHTTP struct {
	Svc *service.OrderService
}

func (h *OrdersHTTP) CreateOrder(c echo.Context) error {
	var req transport.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Image:    it.Image,
			Price:    it.Price,
			Product:  it.Product,
		})
	}

	order, err := h.Svc.Create(c.Request().Context(), authmw.CurrentUser(c).ID, service.OrderInput{
		ShippingInfo:  req.ShippingInfo,
		OrderItems:    items,
		PaymentInfo:   req.PaymentInfo,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

func (h *OrdersHTTP) GetOrder(c echo.Context) error {
	order, err := h.Svc.Get(c.Request().Context(), authmw.CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

func (h *OrdersHTTP) MyOrders(c echo.Context) error {
	orders, err := h.Svc.Mine(c.Request().Context(), authmw.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

func (h *OrdersHTTP) AllOrders(c echo.Context) error {
	orders, total, err := h.Svc.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"totalAmount": total,
		"orders":      orders,
	})
}

func (h *OrdersHTTP) UpdateOrder(c echo.Context) error {
	var req transport.UpdateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.Svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *OrdersHTTP) DeleteOrder(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
