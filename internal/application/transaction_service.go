package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
	"github.com/oksasatya/savings-tracker/pkg/metrics"
)

// TransactionService serves the ledger history, its search index and
// statement exports.
type TransactionService struct {
	Repo      repo.TransactionRepository
	ES        *elasticsearch.Client
	ESIndex   string
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Now       func() time.Time
}

func NewTransactionService(r repo.TransactionRepository, es *elasticsearch.Client, esIndex string, gcs *storage.Client, bucket string, logger *logrus.Logger) *TransactionService {
	return &TransactionService{Repo: r, ES: es, ESIndex: esIndex, GCS: gcs, GCSBucket: bucket, Logger: logger, Now: time.Now}
}

// List returns the user's ledger newest first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]entity.Transaction, error) {
	return s.Repo.ListByUser(ctx, userID)
}

const transactionsMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "userId":        {"type": "keyword"},
      "type":          {"type": "keyword"},
      "description":   {"type": "text"},
      "amount":        {"type": "scaled_float", "scaling_factor": 100},
      "savingsGoalId": {"type": "keyword"},
      "savingsPlanId": {"type": "keyword"},
      "date":          {"type": "date"}
    }
  }
}`

// EnsureIndex creates the transactions index when missing.
func (s *TransactionService) EnsureIndex(ctx context.Context) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := esapi.IndicesExistsRequest{Index: []string{s.ESIndex}}.Do(c, s.ES)
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	res, err := esapi.IndicesCreateRequest{Index: s.ESIndex, Body: strings.NewReader(transactionsMapping)}.Do(c, s.ES)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

// Index writes t to the search index; failures are logged only.
func (s *TransactionService) Index(ctx context.Context, t entity.Transaction) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: t.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("index").Inc()
		s.Logger.WithError(err).WithField("transaction_id", t.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		metrics.NotificationFailures.WithLabelValues("index").Inc()
		s.Logger.WithField("status", res.Status()).WithField("transaction_id", t.ID).Warn("es index response error")
	}
}

// Search runs a user-scoped full text query over description and type.
func (s *TransactionService) Search(ctx context.Context, userID, q string, size int) ([]entity.Transaction, error) {
	if s.ES == nil || s.ESIndex == "" {
		return nil, ErrSearchUnavailable
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	must := []any{}
	if q = strings.TrimSpace(q); q != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"description^2", "type"},
			},
		})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": []any{map[string]any{"term": map[string]any{"userId": userID}}},
			},
		},
		"sort": []any{map[string]any{"date": "desc"}},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Transaction `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Transaction, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Export uploads the user's full ledger as CSV and returns the object URL.
func (s *TransactionService) Export(ctx context.Context, userID string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrExportUnavailable
	}
	txs, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := WriteStatement(&buf, txs); err != nil {
		return "", err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, helpers.StatementObjectPath(userID, now()), "text/csv", &buf)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("statement upload failed")
		return "", fmt.Errorf("upload statement: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "rows": len(txs)}).Info("statement exported")
	return url, nil
}

// WriteStatement renders transactions as CSV with a header row.
func WriteStatement(w io.Writer, txs []entity.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "type", "amount", "description", "savings_goal_id"}); err != nil {
		return err
	}
	for _, t := range txs {
		goal := ""
		if t.SavingsGoalID != nil {
			goal = *t.SavingsGoalID
		}
		row := []string{t.ID, t.Date.UTC().Format(time.RFC3339), string(t.Type), t.Amount.StringFixed(2), t.Description, goal}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ TransactionIndexer = (*TransactionService)(nil)
