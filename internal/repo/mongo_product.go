package repo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Skotchmaster/shopit/internal/models"
)

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	if _, err := r.db.Collection(productCollection).InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MongoRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var product models.Product
	if err := r.db.Collection(productCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translateMongoErr(err, "")
	}
	return &product, nil
}

func productFilter(f ProductFilter) bson.M {
	filter := bson.M{}
	if f.Keyword != "" {
		filter["name"] = bson.Regex{Pattern: regexp.QuoteMeta(f.Keyword), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	price := bson.M{}
	if f.PriceGTE != nil {
		price["$gte"] = *f.PriceGTE
	}
	if f.PriceLTE != nil {
		price["$lte"] = *f.PriceLTE
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if f.RatingsGTE != nil {
		filter["ratings"] = bson.M{"$gte": *f.RatingsGTE}
	}
	return filter
}

func (r *MongoRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	coll := r.db.Collection(productCollection)
	filter := productFilter(f)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if f.Offset > 0 {
		findOpts.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		findOpts.SetLimit(int64(f.Limit))
	}

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeAll[models.Product](ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepo) CountProducts(ctx context.Context) (int64, error) {
	return r.db.Collection(productCollection).CountDocuments(ctx, bson.M{})
}

func (r *MongoRepo) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Price != nil {
		set["price"] = *params.Price
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}
	if params.Seller != nil {
		set["seller"] = *params.Seller
	}
	if params.Stock != nil {
		set["stock"] = *params.Stock
	}
	if params.Images != nil {
		set["images"] = *params.Images
	}
	if len(set) == 0 {
		return r.GetProduct(ctx, id)
	}
	return r.updateProduct(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepo) SetReviews(ctx context.Context, id string, reviews []models.Review, ratings float64) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return r.updateProduct(ctx, id, bson.M{"$set": bson.M{
		"reviews":      reviews,
		"numOfReviews": len(reviews),
		"ratings":      ratings,
	}})
}

func (r *MongoRepo) updateProduct(ctx context.Context, id string, update bson.M) (*models.Product, error) {
	var product models.Product
	err := r.db.Collection(productCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		return nil, translateMongoErr(err, "")
	}
	return &product, nil
}

func (r *MongoRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := r.db.Collection(productCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := r.db.Collection(productCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
