package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

var Categories = []string{
	"Electronics",
	"Cameras",
	"Laptops",
	"Accessories",
	"Headphones",
	"Food",
	"Books",
	"Clothes/Shoes",
	"Beauty/Health",
	"Sports",
	"Outdoor",
	"Home",
}

var DefaultAvatar = Image{
	PublicID: "avatars/kccvibpsuiusmwfepb3m",
	URL:      "https://res.cloudinary.com/shopit/image/upload/v1666305757/avatars/kccvibpsuiusmwfepb3m.png",
}

type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url"       bson:"url"`
}

// User never serializes its password digest or reset state to JSON.
type User struct {
	ID                  string     `gorm:"primaryKey;type:varchar(36)"          json:"_id"       bson:"_id"`
	Name                string     `gorm:"size:30;not null"                     json:"name"      bson:"name"`
	Email               string     `gorm:"uniqueIndex;not null"                 json:"email"     bson:"email"`
	PasswordHash        string     `gorm:"column:password;not null"             json:"-"         bson:"password,omitempty"`
	Avatar              Image      `gorm:"embedded;embeddedPrefix:avatar_"      json:"avatar"    bson:"avatar"`
	Role                string     `gorm:"not null;default:user"                json:"role"      bson:"role"`
	CreatedAt           time.Time  `gorm:"not null"                             json:"createdAt" bson:"createdAt"`
	ResetPasswordToken  *string    `gorm:"index"                                json:"-"         bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time `                                            json:"-"         bson:"resetPasswordExpire,omitempty"`
}

type Review struct {
	ID      string  `json:"_id"     bson:"_id"`
	User    string  `json:"user"    bson:"user"`
	Name    string  `json:"name"    bson:"name"`
	Rating  float64 `json:"rating"  bson:"rating"`
	Comment string  `json:"comment" bson:"comment"`
}

type Product struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"  json:"_id"          bson:"_id"`
	Name         string    `gorm:"size:100;not null"            json:"name"         bson:"name"`
	Price        float64   `gorm:"not null;default:0"           json:"price"        bson:"price"`
	Description  string    `gorm:"type:text;not null"           json:"description"  bson:"description"`
	Ratings      float64   `gorm:"not null;default:0"           json:"ratings"      bson:"ratings"`
	Images       []Image   `gorm:"serializer:json;type:text"    json:"images"       bson:"images"`
	Category     string    `gorm:"index;not null"               json:"category"     bson:"category"`
	Seller       string    `gorm:"not null"                     json:"seller"       bson:"seller"`
	Stock        int       `gorm:"not null;default:0"           json:"stock"        bson:"stock"`
	NumOfReviews int       `gorm:"not null;default:0"           json:"numOfReviews" bson:"numOfReviews"`
	Reviews      []Review  `gorm:"serializer:json;type:text"    json:"reviews"      bson:"reviews"`
	User         string    `gorm:"column:user_id;index;type:varchar(36)" json:"user"         bson:"user"`
	CreatedAt    time.Time `gorm:"not null"                     json:"createdAt"    bson:"createdAt"`
}

type ShippingInfo struct {
	Address    string `json:"address"    bson:"address"`
	City       string `json:"city"       bson:"city"`
	PhoneNo    string `json:"phoneNo"    bson:"phoneNo"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country"    bson:"country"`
}

type OrderItem struct {
	Name     string  `json:"name"     bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Image    string  `json:"image"    bson:"image"`
	Price    float64 `json:"price"    bson:"price"`
	Product  string  `json:"product"  bson:"product"`
}

type PaymentInfo struct {
	ID     string `json:"id"     bson:"id"`
	Status string `json:"status" bson:"status"`
}

type Order struct {
	ID            string       `gorm:"primaryKey;type:varchar(36)"     json:"_id"           bson:"_id"`
	ShippingInfo  ShippingInfo `gorm:"serializer:json;type:text"       json:"shippingInfo"  bson:"shippingInfo"`
	User          string       `gorm:"column:user_id;index;type:varchar(36);not null" json:"user"          bson:"user"`
	OrderItems    []OrderItem  `gorm:"serializer:json;type:text"       json:"orderItems"    bson:"orderItems"`
	PaymentInfo   PaymentInfo  `gorm:"serializer:json;type:text"       json:"paymentInfo"   bson:"paymentInfo"`
	PaidAt        *time.Time   `                                       json:"paidAt"        bson:"paidAt,omitempty"`
	ItemsPrice    float64      `gorm:"not null;default:0"              json:"itemsPrice"    bson:"itemsPrice"`
	TaxPrice      float64      `gorm:"not null;default:0"              json:"taxPrice"      bson:"taxPrice"`
	ShippingPrice float64      `gorm:"not null;default:0"              json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice    float64      `gorm:"not null;default:0"              json:"totalPrice"    bson:"totalPrice"`
	OrderStatus   string       `gorm:"not null;default:Processing"     json:"orderStatus"   bson:"orderStatus"`
	DeliveredAt   *time.Time   `                                       json:"deliveredAt"   bson:"deliveredAt,omitempty"`
	CreatedAt     time.Time    `gorm:"not null"                        json:"createdAt"     bson:"createdAt"`
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
