package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mandalnilabja/BrowserOS/internal/logging"
)

// S3SinkConfig configures the buffered S3 sink.
type S3SinkConfig struct {
	Bucket        string
	Region        string
	Prefix        string
	InstanceName  string
	BufferSize    int
	FlushSize     int
	FlushInterval time.Duration
}

// S3Sink buffers audit records in memory and flushes batches to S3 as JSON
// Lines objects. Enqueue never blocks: when the buffer is full the record is
// dropped with a warning, since auditing must not slow resolution down.
type S3Sink struct {
	client *s3.Client
	cfg    S3SinkConfig
	log    *logging.Logger

	records chan *Record
	done    chan struct{}
	stopped chan struct{}
}

// NewS3Sink creates the sink and starts its flusher goroutine.
func NewS3Sink(ctx context.Context, cfg S3SinkConfig) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Minute
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sink := &S3Sink{
		client:  s3.NewFromConfig(awsCfg),
		cfg:     cfg,
		log:     logging.New("audit-s3"),
		records: make(chan *Record, cfg.BufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go sink.run()
	return sink, nil
}

// Enqueue adds a record to the buffer.
func (s *S3Sink) Enqueue(rec *Record) error {
	select {
	case s.records <- rec:
		return nil
	default:
		s.log.Warn("audit buffer full, dropping record", "operation", rec.Operation)
		return fmt.Errorf("audit buffer full")
	}
}

// Shutdown stops the flusher and writes any buffered records.
func (s *S3Sink) Shutdown(ctx context.Context) error {
	close(s.done)
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *S3Sink) run() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*Record, 0, s.cfg.FlushSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.writeBatch(ctx, batch); err != nil {
			s.log.Error("failed to flush audit batch", "count", len(batch), "error", err)
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case rec := <-s.records:
			batch = append(batch, rec)
			if len(batch) >= s.cfg.FlushSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			// Drain whatever is still buffered before the final flush.
			for {
				select {
				case rec := <-s.records:
					batch = append(batch, rec)
					continue
				default:
				}
				break
			}
			flush()
			return
		}
	}
}

// writeBatch uploads a batch as one JSON Lines object. The key layout is
// prefix/2026/08/26/instance-20260826-143022-123456789.jsonl.
func (s *S3Sink) writeBatch(ctx context.Context, batch []*Record) error {
	now := time.Now().UTC()
	key := fmt.Sprintf("%s%04d/%02d/%02d/%s-%s-%d.jsonl",
		s.cfg.Prefix,
		now.Year(),
		now.Month(),
		now.Day(),
		s.cfg.InstanceName,
		now.Format("20060102-150405"),
		now.Nanosecond(),
	)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, rec := range batch {
		if err := encoder.Encode(rec); err != nil {
			s.log.Error("failed to encode audit record", "id", rec.ID, "error", err)
			continue
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.log.Info("wrote audit batch", "key", key, "count", len(batch))
	return nil
}
