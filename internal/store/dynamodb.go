package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/iksnae/emotion-session/internal"
)

const (
	maxPutAttempts = 5
	batchWriteSize = 25
)

// DynamoAPI is the subset of the DynamoDB client the store uses
type DynamoAPI interface {
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps records in a table keyed by (session_id, seq) and
// summaries in a second table keyed by session_id. Each append writes the
// record and its summary in one transaction that claims the next seq, so
// concurrent writers never interleave and a failed append leaves nothing.
type DynamoStore struct {
	client        DynamoAPI
	table         string
	sessionsTable string

	mu    sync.Mutex
	locks map[string]*sessionMutex
}

// sessionMutex is dropped from the map once no caller holds or awaits it
type sessionMutex struct {
	sync.Mutex
	refs int
}

type sessionItem struct {
	SessionID     string `dynamodbav:"session_id"`
	CreatedAt     string `dynamodbav:"created_at"`
	LastActivity  string `dynamodbav:"last_activity"`
	TotalAnalyses int    `dynamodbav:"total_analyses"`
}

// OpenDynamoDB creates a DynamoStore from the default AWS credential chain
func OpenDynamoDB(ctx context.Context, cfg internal.StoreConfig) (*DynamoStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, &internal.StorageError{Backend: internal.BackendDynamoDB, Op: "open", Err: err}
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewDynamoStore(client, cfg.Table, cfg.SessionsTable), nil
}

// NewDynamoStore wraps an existing client
func NewDynamoStore(client DynamoAPI, table, sessionsTable string) *DynamoStore {
	return &DynamoStore{
		client:        client,
		table:         table,
		sessionsTable: sessionsTable,
		locks:         make(map[string]*sessionMutex),
	}
}

// lockSession serializes writers of one session in this process and
// returns the unlock func
func (d *DynamoStore) lockSession(sessionID string) func() {
	d.mu.Lock()
	l, ok := d.locks[sessionID]
	if !ok {
		l = &sessionMutex{}
		d.locks[sessionID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, sessionID)
		}
		d.mu.Unlock()
	}
}

func (d *DynamoStore) Append(ctx context.Context, sessionID string, rec internal.AnalysisRecord) error {
	unlock := d.lockSession(sessionID)
	defer unlock()

	r := toRow(rec, 0)
	r.SessionID = sessionID

	var err error
	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		if r.Seq, err = d.lastSeq(ctx, sessionID); err != nil {
			return d.fail("append", sessionID, err)
		}
		r.Seq++

		err = d.writeRow(ctx, r)
		if seqTaken(err) {
			internal.LogDebug("seq %d for session %s taken by another writer, retrying", r.Seq, sessionID)
			continue
		}
		break
	}
	if err != nil {
		return d.fail("append", sessionID, err)
	}
	return nil
}

// writeRow puts the record and bumps the session summary atomically
func (d *DynamoStore) writeRow(ctx context.Context, r row) error {
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = d.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(d.table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(seq)"),
			}},
			{Update: &types.Update{
				TableName: aws.String(d.sessionsTable),
				Key: map[string]types.AttributeValue{
					"session_id": &types.AttributeValueMemberS{Value: r.SessionID},
				},
				UpdateExpression: aws.String("SET last_activity = :ts, created_at = if_not_exists(created_at, :ts) ADD total_analyses :one"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":ts":  &types.AttributeValueMemberS{Value: r.Timestamp},
					":one": &types.AttributeValueMemberN{Value: "1"},
				},
			}},
		},
	})
	return err
}

// seqTaken reports whether a write was canceled because the seq exists
func seqTaken(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func (d *DynamoStore) lastSeq(ctx context.Context, sessionID string) (int64, error) {
	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
		ScanIndexForward:     aws.Bool(false),
		Limit:                aws.Int32(1),
		ProjectionExpression: aws.String("seq"),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Items) == 0 {
		return 0, nil
	}
	n, ok := out.Items[0]["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("seq attribute missing")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func (d *DynamoStore) queryRows(ctx context.Context, sessionID string) ([]row, error) {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
		ScanIndexForward: aws.Bool(true),
	})

	var rows []row
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []row
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

func (d *DynamoStore) List(ctx context.Context, sessionID string) ([]internal.AnalysisRecord, error) {
	rows, err := d.queryRows(ctx, sessionID)
	if err != nil {
		return nil, d.fail("list", sessionID, err)
	}
	records := make([]internal.AnalysisRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, d.fail("list", sessionID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (d *DynamoStore) Delete(ctx context.Context, sessionID string) error {
	unlock := d.lockSession(sessionID)
	defer unlock()

	rows, err := d.queryRows(ctx, sessionID)
	if err != nil {
		return d.fail("delete", sessionID, err)
	}

	for start := 0; start < len(rows); start += batchWriteSize {
		end := min(start+batchWriteSize, len(rows))
		requests := make([]types.WriteRequest, 0, end-start)
		for _, r := range rows[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
					"session_id": &types.AttributeValueMemberS{Value: sessionID},
					"seq":        &types.AttributeValueMemberN{Value: strconv.FormatInt(r.Seq, 10)},
				}},
			})
		}
		if err := d.batchWrite(ctx, requests); err != nil {
			return d.fail("delete", sessionID, err)
		}
	}

	if _, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.sessionsTable),
		Key: map[string]types.AttributeValue{
			"session_id": &types.AttributeValueMemberS{Value: sessionID},
		},
	}); err != nil {
		return d.fail("delete", sessionID, err)
	}
	return nil
}

// batchWrite resubmits unprocessed items until none remain
func (d *DynamoStore) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{d.table: requests}
	for attempt := 0; len(pending[d.table]) > 0; attempt++ {
		if attempt >= maxPutAttempts {
			return fmt.Errorf("%d delete requests left unprocessed", len(pending[d.table]))
		}
		out, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return err
		}
		pending = out.UnprocessedItems
		if pending == nil {
			break
		}
	}
	return nil
}

func (d *DynamoStore) Sessions(ctx context.Context, limit int) ([]internal.SessionSummary, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(d.sessionsTable),
	})

	var summaries []internal.SessionSummary
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, d.fail("sessions", "", err)
		}
		var items []sessionItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, d.fail("sessions", "", fmt.Errorf("failed to unmarshal sessions: %w", err))
		}
		for _, it := range items {
			created, err := parseTime(it.CreatedAt)
			if err != nil {
				return nil, d.fail("sessions", it.SessionID, err)
			}
			last, err := parseTime(it.LastActivity)
			if err != nil {
				return nil, d.fail("sessions", it.SessionID, err)
			}
			summaries = append(summaries, internal.SessionSummary{
				SessionID:     it.SessionID,
				CreatedAt:     created,
				LastActivity:  last,
				TotalAnalyses: it.TotalAnalyses,
			})
		}
	}
	if summaries == nil {
		summaries = []internal.SessionSummary{}
	}
	return sortSummaries(summaries, limit), nil
}

func (d *DynamoStore) Close() error { return nil }

func (d *DynamoStore) fail(op, sessionID string, err error) error {
	return &internal.StorageError{Backend: internal.BackendDynamoDB, Op: op, SessionID: sessionID, Err: err}
}
