package persistence

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/allyswap/route-engine/internal/domain"
)

const (
	PoolsBucket = "pools"

	DefaultDBPath = "./data/ally-engine.db"
)

// StoredPool is the on-disk pool snapshot. Reserves are decimal strings
// so arbitrary-precision values survive the round trip.
type StoredPool struct {
	ID               uint64 `json:"id"`
	Dex              string `json:"dex"`
	TokenA           uint64 `json:"tokenA"`
	TokenB           uint64 `json:"tokenB"`
	ReserveA         string `json:"reserveA"`
	ReserveB         string `json:"reserveB"`
	FeeBps           uint16 `json:"feeBps"`
	LastUpdatedRound uint64 `json:"lastUpdatedRound"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[poolStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) SavePool(pool *domain.Pool) error {
	data, err := sonic.Marshal(poolToStored(pool))
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}

	return s.db.Set(PoolsBucket, []byte(pool.ID.String()), data)
}

func (s *Storage) SavePoolBatch(pools []*domain.Pool) error {
	if len(pools) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for _, pool := range pools {
		data, err := sonic.Marshal(poolToStored(pool))
		if err != nil {
			return fmt.Errorf("failed to marshal pool %s: %w", pool.ID.String(), err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(PoolsBucket),
			Key:    []byte(pool.ID.String()),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add pool %s to batch: %w", pool.ID.String(), err)
		}
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", len(pools)).Msg("[poolStorage] FAILED to execute batch")
		return err
	}

	log.Info().Int("count", len(pools)).Msg("[poolStorage] saved pool batch")
	return nil
}

func (s *Storage) LoadAllPools() ([]*domain.Pool, error) {
	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	pools := make([]*domain.Pool, 0, len(data))
	failed := 0

	for key, value := range data {
		var stored StoredPool
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Error().Str("pool", key).Err(err).Msg("[poolStorage] failed to unmarshal pool, skipping")
			failed++
			continue
		}

		pool, err := storedToPool(&stored)
		if err != nil {
			log.Error().Str("pool", key).Err(err).Msg("[poolStorage] failed to convert stored pool, skipping")
			failed++
			continue
		}

		pools = append(pools, pool)
	}

	if failed > 0 {
		log.Error().
			Int("total_in_db", len(data)).
			Int("loaded", len(pools)).
			Int("failed", failed).
			Msg("[poolStorage] pool loading completed with errors")
	} else {
		log.Info().
			Int("total_in_db", len(data)).
			Int("loaded", len(pools)).
			Msg("[poolStorage] pool loading completed successfully")
	}

	return pools, nil
}

func (s *Storage) GetPoolCount() (int, error) {
	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func poolToStored(pool *domain.Pool) *StoredPool {
	reserveA := "0"
	reserveB := "0"
	if pool.ReserveA != nil {
		reserveA = pool.ReserveA.String()
	}
	if pool.ReserveB != nil {
		reserveB = pool.ReserveB.String()
	}

	return &StoredPool{
		ID:               uint64(pool.ID),
		Dex:              string(pool.Dex),
		TokenA:           uint64(pool.TokenA),
		TokenB:           uint64(pool.TokenB),
		ReserveA:         reserveA,
		ReserveB:         reserveB,
		FeeBps:           pool.FeeBps,
		LastUpdatedRound: pool.LastUpdatedRound,
	}
}

func storedToPool(stored *StoredPool) (*domain.Pool, error) {
	reserveA, ok := new(big.Int).SetString(stored.ReserveA, 10)
	if !ok {
		return nil, fmt.Errorf("invalid reserveA %q", stored.ReserveA)
	}
	reserveB, ok := new(big.Int).SetString(stored.ReserveB, 10)
	if !ok {
		return nil, fmt.Errorf("invalid reserveB %q", stored.ReserveB)
	}
	if stored.FeeBps >= 10000 {
		return nil, fmt.Errorf("invalid feeBps %s", strconv.Itoa(int(stored.FeeBps)))
	}

	pool := &domain.Pool{
		ID:               domain.PoolID(stored.ID),
		Dex:              domain.DexName(stored.Dex),
		TokenA:           domain.TokenID(stored.TokenA),
		TokenB:           domain.TokenID(stored.TokenB),
		ReserveA:         reserveA,
		ReserveB:         reserveB,
		FeeBps:           stored.FeeBps,
		LastUpdatedRound: stored.LastUpdatedRound,
	}
	pool.SyncU64Reserves()

	return pool, nil
}
