package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Skotchmaster/shopit/internal/models"
)

func (r *MongoRepo) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.OrderStatus == "" {
		o.OrderStatus = models.StatusProcessing
	}
	if _, err := r.db.Collection(orderCollection).InsertOne(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MongoRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var order models.Order
	if err := r.db.Collection(orderCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translateMongoErr(err, "")
	}
	return &order, nil
}

func (r *MongoRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.listOrders(ctx, bson.M{"user": userID})
}

func (r *MongoRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	return r.listOrders(ctx, bson.M{})
}

func (r *MongoRepo) listOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.db.Collection(orderCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Order](ctx, cursor)
}

func (r *MongoRepo) UpdateOrderStatus(ctx context.Context, id, status string, deliveredAt *time.Time) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	set := bson.M{"orderStatus": status}
	if deliveredAt != nil {
		set["deliveredAt"] = *deliveredAt
	}

	var order models.Order
	err := r.db.Collection(orderCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, translateMongoErr(err, "")
	}
	return &order, nil
}

func (r *MongoRepo) DeleteOrder(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := r.db.Collection(orderCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
