package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopit/internal/logging"
	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/repo"
	"github.com/Skotchmaster/shopit/internal/service"
	"github.com/Skotchmaster/shopit/internal/transport"
	"github.com/Skotchmaster/shopit/internal/util"
)

type ProductsHTTP struct {
	Svc *service.ProductService
}

// GetProducts understands keyword, category, price[gte], price[lte],
// ratings[gte] and page.
func (h *ProductsHTTP) GetProducts(c echo.Context) error {
	page, err := h.Svc.List(c.Request().Context(), service.ProductQuery{
		Keyword:    c.QueryParam("keyword"),
		Category:   c.QueryParam("category"),
		PriceGTE:   util.ParseFloat(c.QueryParam("price[gte]")),
		PriceLTE:   util.ParseFloat(c.QueryParam("price[lte]")),
		RatingsGTE: util.ParseFloat(c.QueryParam("ratings[gte]")),
		Page:       util.ParseIntDefault(c.QueryParam("page"), 1),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.ProductsResponse{
		Success:               true,
		Count:                 len(page.Products),
		ProductCount:          page.ProductCount,
		FilteredProductsCount: page.FilteredProductsCount,
		ResPerPage:            page.ResPerPage,
		Products:              page.Products,
	})
}

func (h *ProductsHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a search query")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), 0)
	total, products, err := h.Svc.Search(ctx, q, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"total":    total,
		"count":    len(products),
		"products": products,
	})
}

func (h *ProductsHTTP) GetProduct(c echo.Context) error {
	p, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": p})
}

func (h *ProductsHTTP) CreateProduct(c echo.Context) error {
	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.Svc.Create(c.Request().Context(), authmw.CurrentUser(c).ID, service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Seller:      req.Seller,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "product": p})
}

func (h *ProductsHTTP) UpdateProduct(c echo.Context) error {
	var req transport.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.Svc.Update(c.Request().Context(), c.Param("id"), repo.UpdateProductParams{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Seller:      req.Seller,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": p})
}

func (h *ProductsHTTP) DeleteProduct(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product removed successfully",
	})
}

func (h *ProductsHTTP) UpsertReview(c echo.Context) error {
	var req transport.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.Svc.UpsertReview(c.Request().Context(), authmw.CurrentUser(c), req.ProductID, req.Rating, req.Comment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *ProductsHTTP) GetReviews(c echo.Context) error {
	reviews, err := h.Svc.Reviews(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reviews": reviews})
}

func (h *ProductsHTTP) DeleteReview(c echo.Context) error {
	_, err := h.Svc.DeleteReview(c.Request().Context(), authmw.CurrentUser(c), c.QueryParam("productId"), c.QueryParam("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
