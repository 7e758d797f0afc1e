package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/hupe1980/rvec/blobstore"
)

// IndexSuffix marks blobs committed through DynamoDB.
const IndexSuffix = ".rdx"

// DDBCommitStore is an S3 store whose lazy-load indexes (*.rdx) are
// versioned through DynamoDB conditional writes. Each Put of an index
// uploads a new immutable object and then claims the next version number;
// readers always open the latest claimed version.
//
// Table schema:
//   - Partition key: base_uri (string), the store URI joined with the index name
//   - Sort key: version (number)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name rvec-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	s3Store   *Store
	ddbClient DDBClient
	tableName string
	baseURI   string
}

var _ blobstore.Store = (*DDBCommitStore)(nil)

// DDBClient is the subset of *dynamodb.Client the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// ErrConcurrentModification is returned when another writer claimed the version first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewDDBCommitStore creates a commit store. baseURI is usually "s3://bucket/prefix/".
func NewDDBCommitStore(s3Store *Store, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		s3Store:   s3Store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

func isIndex(name string) bool { return strings.HasSuffix(name, IndexSuffix) }

// versionedName returns a writer-unique object name for a version of name.
func versionedName(name string, version uint64) string {
	return fmt.Sprintf("%s.%020d.%s", name, version, uuid.NewString())
}

// unversioned maps "x.rdx.<version>.<uuid>" back to "x.rdx".
func unversioned(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	if _, err := uuid.Parse(name[i+1:]); err != nil {
		return "", false
	}
	name = name[:i]
	i = strings.LastIndexByte(name, '.')
	if i < 0 || !isIndex(name[:i]) {
		return "", false
	}
	if _, err := strconv.ParseUint(name[i+1:], 10, 64); err != nil {
		return "", false
	}
	return name[:i], true
}

func (s *DDBCommitStore) partition(name string) string {
	return s.baseURI + name
}

type commit struct {
	version uint64
	object  string
}

// versions returns the commits of name, newest first. limit 0 means all.
func (s *DDBCommitStore) versions(ctx context.Context, name string, limit int32) ([]commit, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.partition(name)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	resp, err := s.ddbClient.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query DynamoDB: %w", err)
	}

	commits := make([]commit, 0, len(resp.Items))
	for _, item := range resp.Items {
		v, ok := item["version"].(*types.AttributeValueMemberN)
		if !ok {
			return nil, errors.New("invalid version attribute in DynamoDB")
		}
		obj, ok := item["object"].(*types.AttributeValueMemberS)
		if !ok {
			return nil, errors.New("invalid object attribute in DynamoDB")
		}
		version, err := strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version: %w", err)
		}
		commits = append(commits, commit{version: version, object: obj.Value})
	}
	return commits, nil
}

// Version returns the latest committed version of the index name, or 0.
func (s *DDBCommitStore) Version(ctx context.Context, name string) (uint64, error) {
	commits, err := s.versions(ctx, name, 1)
	if err != nil || len(commits) == 0 {
		return 0, err
	}
	return commits[0].version, nil
}

func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if !isIndex(name) {
		return s.s3Store.Open(ctx, name)
	}
	commits, err := s.versions(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, blobstore.ErrNotFound
	}
	return s.s3Store.Open(ctx, commits[0].object)
}

// Put writes a blob. Indexes are committed as a new version.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if !isIndex(name) {
		return s.s3Store.Put(ctx, name, data)
	}
	current, err := s.Version(ctx, name)
	if err != nil {
		return err
	}
	next := current + 1
	object := versionedName(name, next)
	if err := s.s3Store.Put(ctx, object, data); err != nil {
		return err
	}

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: s.partition(name)},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"object":   &types.AttributeValueMemberS{Value: object},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		_ = s.s3Store.Delete(ctx, object)
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit version to DynamoDB: %w", err)
	}
	return nil
}

// Create streams a plain blob. Indexes must be written with Put.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if isIndex(name) {
		return nil, fmt.Errorf("s3: index %s must be committed with Put", name)
	}
	return s.s3Store.Create(ctx, name)
}

// Delete removes a blob. Deleting an index drops every committed version.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	if !isIndex(name) {
		return s.s3Store.Delete(ctx, name)
	}
	commits, err := s.versions(ctx, name, 0)
	if err != nil {
		return err
	}
	for _, c := range commits {
		if _, err := s.ddbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"base_uri": &types.AttributeValueMemberS{Value: s.partition(name)},
				"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(c.version, 10)},
			},
		}); err != nil {
			return fmt.Errorf("delete version from DynamoDB: %w", err)
		}
		if err := s.s3Store.Delete(ctx, c.object); err != nil {
			return err
		}
	}
	return nil
}

// List reports each index once under its logical name.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	raw, err := s.s3Store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if base, ok := unversioned(name); ok {
			name = base
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
