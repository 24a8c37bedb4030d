package db

import (
	"encoding/json"

	bolt "go.etcd.io/bbolt"
)

var liquidationsBucketName = []byte("Liquidations")

func setupLiquidationsBucket(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(liquidationsBucketName)
		return err
	})
}

func (db *BoltDB) SaveLiquidation(l *Liquidation) error {
	key := []byte(l.Pubkey)
	value, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(liquidationsBucketName)
		return bucket.Put(key, value)
	})
}

func (db *BoltDB) GetLiquidation(pubkey string) (*Liquidation, error) {
	var data Liquidation
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(liquidationsBucketName)
		value := bucket.Get([]byte(pubkey))
		if value == nil {
			return ErrNotFound
		}
		return json.Unmarshal(value, &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// ListLiquidations returns all records ordered by pubkey; a non-empty status filters them.
func (db *BoltDB) ListLiquidations(status Status) ([]Liquidation, error) {
	dataList := []Liquidation{}
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(liquidationsBucketName)
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var data Liquidation
			err := json.Unmarshal(v, &data)
			if err != nil {
				return err
			}

			if status != "" && data.Status != status {
				continue
			}

			dataList = append(dataList, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dataList, nil
}

// LiquidatedPubkeys returns the nodes whose liquidation transaction was submitted.
func (db *BoltDB) LiquidatedPubkeys() ([]string, error) {
	list, err := db.ListLiquidations(StatusSubmitted)
	if err != nil {
		return nil, err
	}
	pubkeys := make([]string, len(list))
	for i, l := range list {
		pubkeys[i] = l.Pubkey
	}
	return pubkeys, nil
}

// CountByStatus tallies records per status.
func (db *BoltDB) CountByStatus() (map[Status]int, error) {
	list, err := db.ListLiquidations("")
	if err != nil {
		return nil, err
	}
	counts := make(map[Status]int)
	for _, l := range list {
		counts[l.Status]++
	}
	return counts, nil
}
