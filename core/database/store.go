package database

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	CollFatosPedidos     = "fatos_pedidos"
	CollPolpaMetricas    = "polpa_metricas"
	CollManteigaMetricas = "manteiga_metricas"
	CollUsers            = "users"
)

// Store bundles the database handles the services need. It is built
// once at startup and injected explicitly, there are no global
// database variables.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	FatosPedidos     *mongo.Collection
	PolpaMetricas    *mongo.Collection
	ManteigaMetricas *mongo.Collection
	Users            *mongo.Collection
}

// NewStore builds a Store over the given client and database name.
func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		Client:           client,
		DB:               db,
		FatosPedidos:     db.Collection(CollFatosPedidos),
		PolpaMetricas:    db.Collection(CollPolpaMetricas),
		ManteigaMetricas: db.Collection(CollManteigaMetricas),
		Users:            db.Collection(CollUsers),
	}
}

// CollectionNames lists every collection the Store manages.
func CollectionNames() []string {
	return []string{
		CollFatosPedidos,
		CollPolpaMetricas,
		CollManteigaMetricas,
		CollUsers,
	}
}
