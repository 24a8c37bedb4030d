package db

import (
	"errors"
	"time"

	"github.com/session-foundation/sn-liquidator/utils"
	bolt "go.etcd.io/bbolt"
)

var stateBucketName = []byte("State")

var (
	lastHeightKey   = []byte("lastHeight")
	lastPolledAtKey = []byte("lastPolledAt")
)

func setupStateBucket(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucketName)
		return err
	})
}

func (db *BoltDB) GetState() (*State, error) {
	var state State
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(stateBucketName)
		if value := bucket.Get(lastHeightKey); value != nil {
			height, err := utils.BytesToUint64(value)
			if err != nil {
				return errors.New("error parsing last height")
			}
			state.LastHeight = height
		}
		if value := bucket.Get(lastPolledAtKey); value != nil {
			return state.LastPolledAt.UnmarshalText(value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (db *BoltDB) SaveLastHeight(height uint64) error {
	polledAt, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(stateBucketName)
		if err := bucket.Put(lastHeightKey, utils.Uint64ToBytes(height)); err != nil {
			return err
		}
		return bucket.Put(lastPolledAtKey, polledAt)
	})
}
