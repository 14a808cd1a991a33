package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix   = "download:"
	activeIndexKey = "downloads:active"
)

// ErrNotFound は指定されたジョブが存在しないことを表します。
var ErrNotFound = errors.New("job not found")

// Store はダウンロードジョブの状態を Redis に保存します。
// 進行中のジョブは作成時刻をスコアにしたソート済みセットで管理します。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewStore は Store を作成します。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get はジョブ情報を取得します。存在しない場合は nil を返します。
func (s *Store) Get(ctx context.Context, jobID string) (*Record, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("jobID is required")
	}
	data, err := s.rdb.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	return &record, nil
}

// Upsert はジョブ情報を保存します（存在しない場合は作成）。
// JobID が空の場合は UUID を割り当てます。
func (s *Store) Upsert(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	if record.JobID == "" {
		record.JobID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = StatusQueued
	}
	now := s.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.ExpiresAt.IsZero() && s.ttl > 0 {
		record.ExpiresAt = record.CreatedAt.Add(s.ttl)
	}
	record.Progress.Percent = percentOf(record.Progress.Current, record.Progress.Total)

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, jobKey(record.JobID), payload, s.ttl)
	s.syncActiveIndex(ctx, pipe, record)
	_, err = pipe.Exec(ctx)
	return err
}

// UpdateProgress はチャプター単位の進捗を更新します。パーセントは current/total から算出します。
func (s *Store) UpdateProgress(ctx context.Context, jobID string, current, total int, message string) error {
	return s.updatePartial(ctx, jobID, func(record *Record) {
		record.Status = StatusRunning
		record.Progress = ProgressInfo{
			Current: current,
			Total:   total,
			Percent: percentOf(current, total),
			Message: message,
		}
	})
}

// MarkDone はジョブ完了時の情報を保存し、進行中一覧から外します。
func (s *Store) MarkDone(ctx context.Context, jobID string, message string) error {
	return s.updatePartial(ctx, jobID, func(record *Record) {
		record.Status = StatusSucceeded
		record.Progress.Current = record.Progress.Total
		record.Progress.Percent = 100
		record.Progress.Message = message
		record.Error = nil
	})
}

// MarkFailed はジョブ失敗時の情報を保存し、進行中一覧から外します。
func (s *Store) MarkFailed(ctx context.Context, jobID string, errInfo *ErrorInfo) error {
	return s.updatePartial(ctx, jobID, func(record *Record) {
		record.Status = StatusFailed
		if errInfo != nil {
			record.Error = errInfo
			record.Progress.Message = errInfo.Message
		}
	})
}

// ListActive は進行中のジョブを作成順（古い順）で返します。
// 期限切れで本体が消えたIDは索引からも取り除きます。
func (s *Store) ListActive(ctx context.Context) ([]*Record, error) {
	ids, err := s.rdb.ZRange(ctx, activeIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = jobKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to decode job %s: %w", ids[i], err)
		}
		if !record.Status.Active() {
			stale = append(stale, ids[i])
			continue
		}
		records = append(records, &record)
	}

	if len(stale) > 0 {
		if err := s.rdb.ZRem(ctx, activeIndexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) updatePartial(ctx context.Context, jobID string, mutate func(*Record)) error {
	key := jobKey(jobID)
	for {
		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return fmt.Errorf("%w: %s", ErrNotFound, jobID)
				}
				return err
			}
			var record Record
			if err := json.Unmarshal(data, &record); err != nil {
				return err
			}
			mutate(&record)
			record.UpdatedAt = s.now()
			payload, err := json.Marshal(&record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.ttl)
				s.syncActiveIndex(ctx, pipe, &record)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
}

// syncActiveIndex は索引に載るジョブを Status.Active() が真のものだけに揃えます。
func (s *Store) syncActiveIndex(ctx context.Context, pipe redis.Pipeliner, record *Record) {
	if record.Status.Active() {
		pipe.ZAdd(ctx, activeIndexKey, redis.Z{
			Score:  float64(record.CreatedAt.UnixNano()),
			Member: record.JobID,
		})
		return
	}
	pipe.ZRem(ctx, activeIndexKey, record.JobID)
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}
