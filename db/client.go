package db

import (
	"errors"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

type Config struct {
	DbPath string `yaml:"dbPath" env:"DB_PATH" env-description:"Path to the liquidation log database; empty keeps no state across restarts"`
}

type BoltDB struct {
	db *bolt.DB
}

func NewBoltDB(dbPath string, logger *zap.Logger) (*BoltDB, error) {
	logger.Info("Opening db, if it doesn't exist it will be created", zap.String("path", dbPath))
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = setupLiquidationsBucket(db)
	if err != nil {
		return nil, err
	}
	err = setupStateBucket(db)
	if err != nil {
		return nil, err
	}
	return &BoltDB{db}, nil
}

func (db *BoltDB) Close() error {
	return db.db.Close()
}
