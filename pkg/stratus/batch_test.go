package stratus_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stratus-io/stratus-go/pkg/stratus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements stratus.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Zones() stratus.ZonesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.ZonesClient)
}

func (m *MockClient) DNSRecords() stratus.DNSRecordsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.DNSRecordsClient)
}

func (m *MockClient) Rulesets() stratus.RulesetsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.RulesetsClient)
}

func (m *MockClient) Buckets() stratus.BucketsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.BucketsClient)
}

func (m *MockClient) Tokens() stratus.TokensClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.TokensClient)
}

func (m *MockClient) Accounts() stratus.AccountsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.AccountsClient)
}

func (m *MockClient) AuditEvents() stratus.AuditEventsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.AuditEventsClient)
}

func (m *MockClient) SecurityEvents() stratus.SecurityEventsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(stratus.SecurityEventsClient)
}

func (m *MockClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockZonesClient implements stratus.ZonesClient for testing
type MockZonesClient struct {
	mock.Mock
}

func (m *MockZonesClient) Create(ctx context.Context, request *stratus.ZoneCreateRequest) (*stratus.Zone, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Zone), args.Error(1)
}

func (m *MockZonesClient) Get(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Zone), args.Error(1)
}

func (m *MockZonesClient) List(ctx context.Context, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Zone], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.Zone]), args.Error(1)
}

func (m *MockZonesClient) Update(ctx context.Context, zoneID string, request *stratus.ZoneUpdateRequest) (*stratus.Zone, error) {
	args := m.Called(ctx, zoneID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Zone), args.Error(1)
}

func (m *MockZonesClient) Delete(ctx context.Context, zoneID string) error {
	args := m.Called(ctx, zoneID)
	return args.Error(0)
}

func (m *MockZonesClient) Pause(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Zone), args.Error(1)
}

func (m *MockZonesClient) Unpause(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Zone), args.Error(1)
}

func (m *MockZonesClient) PurgeCache(ctx context.Context, zoneID string, request *stratus.ZonePurgeRequest) (*stratus.ZonePurgeResult, error) {
	args := m.Called(ctx, zoneID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ZonePurgeResult), args.Error(1)
}

func (m *MockZonesClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Zone], error) {
	args := m.Called(ctx, path, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.Zone]), args.Error(1)
}

// MockDNSRecordsClient implements stratus.DNSRecordsClient for testing
type MockDNSRecordsClient struct {
	mock.Mock
}

func (m *MockDNSRecordsClient) Create(ctx context.Context, zoneID string, request *stratus.DNSRecordCreateRequest) (*stratus.DNSRecord, error) {
	args := m.Called(ctx, zoneID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.DNSRecord), args.Error(1)
}

func (m *MockDNSRecordsClient) Get(ctx context.Context, zoneID, recordID string) (*stratus.DNSRecord, error) {
	args := m.Called(ctx, zoneID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.DNSRecord), args.Error(1)
}

func (m *MockDNSRecordsClient) List(ctx context.Context, zoneID string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.DNSRecord], error) {
	args := m.Called(ctx, zoneID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.DNSRecord]), args.Error(1)
}

func (m *MockDNSRecordsClient) Update(ctx context.Context, zoneID, recordID string, request *stratus.DNSRecordUpdateRequest) (*stratus.DNSRecord, error) {
	args := m.Called(ctx, zoneID, recordID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.DNSRecord), args.Error(1)
}

func (m *MockDNSRecordsClient) Delete(ctx context.Context, zoneID, recordID string) error {
	args := m.Called(ctx, zoneID, recordID)
	return args.Error(0)
}

func (m *MockDNSRecordsClient) Export(ctx context.Context, zoneID string) ([]byte, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDNSRecordsClient) Import(ctx context.Context, zoneID string, records []stratus.DNSRecordCreateRequest) (*stratus.DNSImportResult, error) {
	args := m.Called(ctx, zoneID, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.DNSImportResult), args.Error(1)
}

func (m *MockDNSRecordsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.DNSRecord], error) {
	args := m.Called(ctx, path, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.DNSRecord]), args.Error(1)
}

// MockBucketsClient implements stratus.BucketsClient for testing
type MockBucketsClient struct {
	mock.Mock
}

func (m *MockBucketsClient) Create(ctx context.Context, accountID string, request *stratus.BucketCreateRequest) (*stratus.Bucket, error) {
	args := m.Called(ctx, accountID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Bucket), args.Error(1)
}

func (m *MockBucketsClient) Get(ctx context.Context, accountID, name string) (*stratus.Bucket, error) {
	args := m.Called(ctx, accountID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.Bucket), args.Error(1)
}

func (m *MockBucketsClient) List(ctx context.Context, accountID string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Bucket], error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.Bucket]), args.Error(1)
}

func (m *MockBucketsClient) Delete(ctx context.Context, accountID, name string) error {
	args := m.Called(ctx, accountID, name)
	return args.Error(0)
}

func (m *MockBucketsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Bucket], error) {
	args := m.Called(ctx, path, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stratus.ListResponse[stratus.Bucket]), args.Error(1)
}

func TestBatchExecutor_Execute(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	// Set up mock expectations
	zone1 := &stratus.Zone{
		Resource: stratus.Resource{ID: "zone-1"},
		Name:     "example.com",
	}
	zone2 := &stratus.Zone{
		Resource: stratus.Resource{ID: "zone-2"},
		Name:     "example.org",
	}

	mockZones.On("Get", mock.Anything, "zone-id-1").Return(zone1, nil)
	mockZones.On("Get", mock.Anything, "zone-id-2").Return(zone2, nil)

	operations := []stratus.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "zone",
			Data:     "zone-id-1",
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "zone",
			Data:     "zone-id-2",
		},
	}

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Check results
	for _, result := range results {
		assert.True(t, result.Success)
		assert.NoError(t, result.Error)
		assert.NotNil(t, result.Data)
		assert.True(t, result.Duration > 0)
	}

	mockClient.AssertExpectations(t)
	mockZones.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	zone := &stratus.Zone{
		Resource: stratus.Resource{ID: "zone-1"},
		Name:     "example.com",
	}
	mockZones.On("Get", mock.Anything, "zone-id").Return(zone, nil)

	var callbackCalled bool
	var callbackResult *stratus.BatchResult

	operation := stratus.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "zone",
		Data:     "zone-id",
		Callback: func(result *stratus.BatchResult) {
			callbackCalled = true
			callbackResult = result
		},
	}

	_, err := executor.Execute(ctx, []stratus.BatchOperation{operation})
	require.NoError(t, err)

	assert.True(t, callbackCalled)
	assert.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockClient.AssertExpectations(t)
	mockZones.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	mockZones.On("Get", mock.Anything, "zone-id").Return(nil, fmt.Errorf("zone not found"))

	operation := stratus.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "zone",
		Data:     "zone-id",
	}

	results, err := executor.Execute(ctx, []stratus.BatchOperation{operation})
	require.NoError(t, err) // Execute itself shouldn't fail
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "zone not found")

	mockClient.AssertExpectations(t)
	mockZones.AssertExpectations(t)
}

func TestBatchExecutor_EmptyBatch(t *testing.T) {
	mockClient := &MockClient{}
	executor := stratus.NewBatchExecutor(mockClient, 1)

	results, err := executor.Execute(context.Background(), nil)
	require.ErrorIs(t, err, stratus.ErrBatchSpecEmpty)
	assert.Nil(t, results)
}

func TestBatchExecutor_UnsupportedResource(t *testing.T) {
	mockClient := &MockClient{}
	executor := stratus.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(1 * time.Second)

	operation := stratus.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "certificate",
		Data:     "test",
	}

	ctx := context.Background()
	results, err := executor.Execute(ctx, []stratus.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, stratus.ErrUnsupportedResourceType)
}

func TestBatchExecutor_InvalidDataType(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 1)

	// A create operation carrying a bare string instead of a request struct.
	operation := stratus.BatchOperation{
		ID:       "op1",
		Type:     "create",
		Resource: "zone",
		Data:     "not-a-request",
	}

	results, err := executor.Execute(context.Background(), []stratus.BatchOperation{operation})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, stratus.ErrInvalidDataTypeZone)
}

func TestBatchExecutor_DNSRecordOperations(t *testing.T) {
	mockClient := &MockClient{}
	mockRecords := &MockDNSRecordsClient{}
	mockClient.On("DNSRecords").Return(mockRecords)

	executor := stratus.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	created := &stratus.DNSRecord{
		Resource: stratus.Resource{ID: "rec-1"},
		Type:     "A",
		Name:     "www",
		Content:  "192.0.2.1",
		ZoneID:   "zone-1",
	}

	createReq := &stratus.DNSRecordCreateRequest{
		Type:    "A",
		Name:    "www",
		Content: "192.0.2.1",
	}

	mockRecords.On("Create", mock.Anything, "zone-1", createReq).Return(created, nil)
	mockRecords.On("Delete", mock.Anything, "zone-1", "rec-old").Return(nil)

	operations := stratus.NewBatchBuilder().
		AddCreateDNSRecord("create-1", "zone-1", createReq).
		AddDeleteDNSRecord("delete-1", "zone-1", "rec-old").
		Build()

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, created, results[0].Data)
	assert.True(t, results[1].Success)

	mockClient.AssertExpectations(t)
	mockRecords.AssertExpectations(t)
}

func TestBatchBuilder(t *testing.T) {
	builder := stratus.NewBatchBuilder()

	createReq := &stratus.ZoneCreateRequest{
		Name: "example.com",
	}
	paused := true
	updateReq := &stratus.ZoneUpdateRequest{
		Paused: &paused,
	}

	builder.
		AddCreateZone("create-1", createReq).
		AddUpdateZone("update-1", "zone-id", updateReq).
		AddDeleteZone("delete-1", "zone-to-delete").
		AddGetZone("get-1", "zone-to-get")

	operations := builder.Build()
	assert.Len(t, operations, 4)

	assert.Equal(t, "create-1", operations[0].ID)
	assert.Equal(t, "create", operations[0].Type)
	assert.Equal(t, "zone", operations[0].Resource)

	assert.Equal(t, "update-1", operations[1].ID)
	assert.Equal(t, "update", operations[1].Type)

	wrapper, ok := operations[1].Data.(*stratus.UpdateDataWrapper[stratus.ZoneUpdateRequest])
	require.True(t, ok)
	assert.Equal(t, "zone-id", wrapper.ID)
	assert.Equal(t, updateReq, wrapper.Request)

	assert.Equal(t, "delete-1", operations[2].ID)
	assert.Equal(t, "delete", operations[2].Type)

	assert.Equal(t, "get-1", operations[3].ID)
	assert.Equal(t, "get", operations[3].Type)
}

func TestBatchBuilder_ScopedResources(t *testing.T) {
	recordReq := &stratus.DNSRecordCreateRequest{
		Type:    "CNAME",
		Name:    "blog",
		Content: "hosting.example.net",
	}
	bucketReq := &stratus.BucketCreateRequest{
		Name: "backups",
	}

	operations := stratus.NewBatchBuilder().
		AddCreateDNSRecord("rec-create", "zone-1", recordReq).
		AddDeleteDNSRecord("rec-delete", "zone-1", "rec-9").
		AddCreateBucket("bucket-create", "acct-1", bucketReq).
		AddDeleteBucket("bucket-delete", "acct-1", "old-backups").
		Build()

	require.Len(t, operations, 4)

	createData, ok := operations[0].Data.(*stratus.ZoneScopedCreate[stratus.DNSRecordCreateRequest])
	require.True(t, ok)
	assert.Equal(t, "zone-1", createData.ZoneID)
	assert.Equal(t, recordReq, createData.Request)

	deleteRef, ok := operations[1].Data.(stratus.ZoneResourceRef)
	require.True(t, ok)
	assert.Equal(t, "zone-1", deleteRef.ZoneID)
	assert.Equal(t, "rec-9", deleteRef.ID)

	bucketData, ok := operations[2].Data.(*stratus.AccountScopedCreate[stratus.BucketCreateRequest])
	require.True(t, ok)
	assert.Equal(t, "acct-1", bucketData.AccountID)

	bucketRef, ok := operations[3].Data.(stratus.BucketRef)
	require.True(t, ok)
	assert.Equal(t, "acct-1", bucketRef.AccountID)
	assert.Equal(t, "old-backups", bucketRef.Name)
}

func TestBatchTransaction_RollsBackOnFailure(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 1)

	goodReq := &stratus.ZoneCreateRequest{Name: "example.com"}
	badReq := &stratus.ZoneCreateRequest{Name: "taken.com"}

	createdZone := &stratus.Zone{
		Resource: stratus.Resource{ID: "zone-1"},
		Name:     "example.com",
	}

	mockZones.On("Create", mock.Anything, goodReq).Return(createdZone, nil)
	mockZones.On("Create", mock.Anything, badReq).Return(nil, fmt.Errorf("zone already exists"))
	mockZones.On("Delete", mock.Anything, "zone-1").Return(nil)

	transaction := stratus.NewBatchTransaction(executor).
		Add(stratus.BatchOperation{ID: "op1", Type: "create", Resource: "zone", Data: goodReq}).
		Add(stratus.BatchOperation{ID: "op2", Type: "create", Resource: "zone", Data: badReq})

	results, err := transaction.Execute(context.Background())
	require.ErrorIs(t, err, stratus.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "op2")
	require.Len(t, results, 2)

	// The successful create must be deleted again.
	mockZones.AssertCalled(t, "Delete", mock.Anything, "zone-1")
}

func TestBatchTransaction_NoRollbackWhenDisabled(t *testing.T) {
	mockClient := &MockClient{}
	mockZones := &MockZonesClient{}
	mockClient.On("Zones").Return(mockZones)

	executor := stratus.NewBatchExecutor(mockClient, 1)

	goodReq := &stratus.ZoneCreateRequest{Name: "example.com"}
	badReq := &stratus.ZoneCreateRequest{Name: "taken.com"}

	createdZone := &stratus.Zone{
		Resource: stratus.Resource{ID: "zone-1"},
		Name:     "example.com",
	}

	mockZones.On("Create", mock.Anything, goodReq).Return(createdZone, nil)
	mockZones.On("Create", mock.Anything, badReq).Return(nil, fmt.Errorf("zone already exists"))

	transaction := stratus.NewBatchTransaction(executor).
		SetRollback(false).
		Add(stratus.BatchOperation{ID: "op1", Type: "create", Resource: "zone", Data: goodReq}).
		Add(stratus.BatchOperation{ID: "op2", Type: "create", Resource: "zone", Data: badReq})

	results, err := transaction.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)

	mockZones.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
