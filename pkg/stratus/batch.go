package stratus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataTypeZone      = errors.New("invalid data type for zone operation")
	ErrInvalidDataTypeDNSRecord = errors.New("invalid data type for DNS record operation")
	ErrInvalidDataTypeRuleset   = errors.New("invalid data type for ruleset operation")
	ErrInvalidDataTypeBucket    = errors.New("invalid data type for bucket operation")
	ErrInvalidDataTypeToken     = errors.New("invalid data type for token operation")
	ErrTransactionFailed        = errors.New("transaction failed")
)

// Batch resource names.
const (
	BatchResourceZone      = "zone"
	BatchResourceDNSRecord = "dns_record"
	BatchResourceRuleset   = "ruleset"
	BatchResourceBucket    = "bucket"
	BatchResourceToken     = "token"
)

// UpdateDataWrapper wraps update data with the resource ID for consistent
// handling of flat resources.
type UpdateDataWrapper[T any] struct {
	ID      string
	Request *T
}

// ZoneScopedCreate wraps create data with the zone it targets.
type ZoneScopedCreate[T any] struct {
	ZoneID  string
	Request *T
}

// ZoneScopedUpdate wraps update data with the zone and resource IDs.
type ZoneScopedUpdate[T any] struct {
	ZoneID  string
	ID      string
	Request *T
}

// ZoneResourceRef identifies a resource nested under a zone.
type ZoneResourceRef struct {
	ZoneID string
	ID     string
}

// AccountScopedCreate wraps create data with the owning account.
type AccountScopedCreate[T any] struct {
	AccountID string
	Request   *T
}

// BucketRef identifies a bucket within an account.
type BucketRef struct {
	AccountID string
	Name      string
}

// handleCrudOperation is a helper that handles the common CRUD pattern.
func handleCrudOperation(
	operation BatchOperation,
	createFunc func() (interface{}, error),
	updateFunc func() (interface{}, error),
	deleteFunc func() (interface{}, error),
	getFunc func() (interface{}, error),
) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	switch operation.Type {
	case constants.OperationCreate:
		data, err := createFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case constants.OperationUpdate:
		data, err := updateFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case constants.OperationDelete:
		data, err := deleteFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case constants.OperationGet:
		data, err := getFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return result
}

// CRUDOperationConfig holds configuration for CRUD operations.
type CRUDOperationConfig struct {
	InvalidDataTypeErr error
	CreateFunc         func(ctx context.Context, operation BatchOperation) (interface{}, error)
	UpdateFunc         func(ctx context.Context, operation BatchOperation) (interface{}, error)
	DeleteFunc         func(ctx context.Context, operation BatchOperation) (interface{}, error)
	GetFunc            func(ctx context.Context, operation BatchOperation) (interface{}, error)
}

// ResourceClientOps defines the operations a flat resource client must expose
// to participate in generic batch execution.
type ResourceClientOps[TCreateRequest, TUpdateRequest, TResponse any] interface {
	Create(ctx context.Context, request *TCreateRequest) (*TResponse, error)
	Update(ctx context.Context, id string, request *TUpdateRequest) (*TResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*TResponse, error)
}

// createCRUDOperationConfig creates a generic CRUD operation configuration.
func createCRUDOperationConfig[TCreateRequest, TUpdateRequest, TResponse any](
	invalidDataTypeErr error,
	client ResourceClientOps[TCreateRequest, TUpdateRequest, TResponse],
) CRUDOperationConfig {
	return CRUDOperationConfig{
		InvalidDataTypeErr: invalidDataTypeErr,
		CreateFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if req, ok := operation.Data.(*TCreateRequest); ok {
				return client.Create(ctx, req)
			}

			return nil, fmt.Errorf("%w create", invalidDataTypeErr)
		},
		UpdateFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[TUpdateRequest]); ok {
				return client.Update(ctx, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", invalidDataTypeErr)
		},
		DeleteFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				err := client.Delete(ctx, id)
				if err != nil {
					return nil, fmt.Errorf("failed to delete resource: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", invalidDataTypeErr)
		},
		GetFunc: func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return client.Get(ctx, id)
			}

			return nil, fmt.Errorf("%w get", invalidDataTypeErr)
		},
	}
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "zone", "dns_record", "ruleset", "bucket", "token"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor executes batch operations.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchWorkers
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultTotalTimeout,
	}
}

// SetTimeout sets the per-operation timeout for batch operations.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations with bounded concurrency. Results are
// returned in the same order as the operations regardless of completion order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	if len(operations) == 0 {
		return nil, ErrBatchSpecEmpty
	}

	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			// Acquire semaphore
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			// Execute operation with timeout
			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			// Call callback if provided
			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeGenericCrudOperation handles generic CRUD operations using the provided configuration.
func (b *BatchExecutor) executeGenericCrudOperation(ctx context.Context, operation BatchOperation, config CRUDOperationConfig) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) { return config.CreateFunc(ctx, operation) },
		func() (interface{}, error) { return config.UpdateFunc(ctx, operation) },
		func() (interface{}, error) { return config.DeleteFunc(ctx, operation) },
		func() (interface{}, error) { return config.GetFunc(ctx, operation) },
	)
}

// createZoneOperationConfig creates CRUD operation configuration for zones.
func (b *BatchExecutor) createZoneOperationConfig() CRUDOperationConfig {
	return createCRUDOperationConfig(ErrInvalidDataTypeZone, b.client.Zones())
}

// createTokenOperationConfig creates CRUD operation configuration for API tokens.
func (b *BatchExecutor) createTokenOperationConfig() CRUDOperationConfig {
	return createCRUDOperationConfig(ErrInvalidDataTypeToken, b.client.Tokens())
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{
		ID: operation.ID,
	}

	switch operation.Resource {
	case BatchResourceZone:
		result = b.executeZoneOperation(ctx, operation)
	case BatchResourceDNSRecord:
		result = b.executeDNSRecordOperation(ctx, operation)
	case BatchResourceRuleset:
		result = b.executeRulesetOperation(ctx, operation)
	case BatchResourceBucket:
		result = b.executeBucketOperation(ctx, operation)
	case BatchResourceToken:
		result = b.executeTokenOperation(ctx, operation)
	default:
		result.Success = false
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}

	return result
}

// executeZoneOperation handles zone operations using the common CRUD helper.
func (b *BatchExecutor) executeZoneOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	config := b.createZoneOperationConfig()

	return b.executeGenericCrudOperation(ctx, operation, config)
}

// executeTokenOperation handles API token operations using the common CRUD helper.
func (b *BatchExecutor) executeTokenOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	config := b.createTokenOperationConfig()

	return b.executeGenericCrudOperation(ctx, operation, config)
}

// executeDNSRecordOperation handles DNS record operations. Records are nested
// under a zone, so every payload carries the zone ID.
func (b *BatchExecutor) executeDNSRecordOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*ZoneScopedCreate[DNSRecordCreateRequest]); ok {
				return b.client.DNSRecords().Create(ctx, data.ZoneID, data.Request)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeDNSRecord)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*ZoneScopedUpdate[DNSRecordUpdateRequest]); ok {
				return b.client.DNSRecords().Update(ctx, data.ZoneID, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeDNSRecord)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(ZoneResourceRef); ok {
				err := b.client.DNSRecords().Delete(ctx, ref.ZoneID, ref.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to delete DNS record: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeDNSRecord)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(ZoneResourceRef); ok {
				return b.client.DNSRecords().Get(ctx, ref.ZoneID, ref.ID)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeDNSRecord)
		},
	)
}

// executeRulesetOperation handles ruleset operations, which are zone-scoped
// like DNS records.
func (b *BatchExecutor) executeRulesetOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*ZoneScopedCreate[RulesetCreateRequest]); ok {
				return b.client.Rulesets().Create(ctx, data.ZoneID, data.Request)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeRuleset)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*ZoneScopedUpdate[RulesetUpdateRequest]); ok {
				return b.client.Rulesets().Update(ctx, data.ZoneID, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeRuleset)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(ZoneResourceRef); ok {
				err := b.client.Rulesets().Delete(ctx, ref.ZoneID, ref.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to delete ruleset: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeRuleset)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(ZoneResourceRef); ok {
				return b.client.Rulesets().Get(ctx, ref.ZoneID, ref.ID)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeRuleset)
		},
	)
}

// executeBucketOperation handles storage bucket operations. Buckets are
// account-scoped and immutable, so update requests are rejected.
func (b *BatchExecutor) executeBucketOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*AccountScopedCreate[BucketCreateRequest]); ok {
				return b.client.Buckets().Create(ctx, data.AccountID, data.Request)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeBucket)
		},
		func() (interface{}, error) {
			return nil, fmt.Errorf("%w: bucket update", ErrUnsupportedOperationType)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(BucketRef); ok {
				err := b.client.Buckets().Delete(ctx, ref.AccountID, ref.Name)
				if err != nil {
					return nil, fmt.Errorf("failed to delete bucket: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeBucket)
		},
		func() (interface{}, error) {
			if ref, ok := operation.Data.(BucketRef); ok {
				return b.client.Buckets().Get(ctx, ref.AccountID, ref.Name)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeBucket)
		},
	)
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateZone adds a zone creation operation.
func (b *BatchBuilder) AddCreateZone(id string, request *ZoneCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: BatchResourceZone,
		Data:     request,
	})

	return b
}

// AddUpdateZone adds a zone update operation.
func (b *BatchBuilder) AddUpdateZone(id, zoneID string, request *ZoneUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationUpdate,
		Resource: BatchResourceZone,
		Data: &UpdateDataWrapper[ZoneUpdateRequest]{
			ID:      zoneID,
			Request: request,
		},
	})

	return b
}

// AddDeleteZone adds a zone deletion operation.
func (b *BatchBuilder) AddDeleteZone(id, zoneID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationDelete,
		Resource: BatchResourceZone,
		Data:     zoneID,
	})

	return b
}

// AddGetZone adds a zone get operation.
func (b *BatchBuilder) AddGetZone(id, zoneID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationGet,
		Resource: BatchResourceZone,
		Data:     zoneID,
	})

	return b
}

// AddCreateDNSRecord adds a DNS record creation operation.
func (b *BatchBuilder) AddCreateDNSRecord(id, zoneID string, request *DNSRecordCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: BatchResourceDNSRecord,
		Data: &ZoneScopedCreate[DNSRecordCreateRequest]{
			ZoneID:  zoneID,
			Request: request,
		},
	})

	return b
}

// AddUpdateDNSRecord adds a DNS record update operation.
func (b *BatchBuilder) AddUpdateDNSRecord(id, zoneID, recordID string, request *DNSRecordUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationUpdate,
		Resource: BatchResourceDNSRecord,
		Data: &ZoneScopedUpdate[DNSRecordUpdateRequest]{
			ZoneID:  zoneID,
			ID:      recordID,
			Request: request,
		},
	})

	return b
}

// AddDeleteDNSRecord adds a DNS record deletion operation.
func (b *BatchBuilder) AddDeleteDNSRecord(id, zoneID, recordID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationDelete,
		Resource: BatchResourceDNSRecord,
		Data: ZoneResourceRef{
			ZoneID: zoneID,
			ID:     recordID,
		},
	})

	return b
}

// AddCreateBucket adds a bucket creation operation.
func (b *BatchBuilder) AddCreateBucket(id, accountID string, request *BucketCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: BatchResourceBucket,
		Data: &AccountScopedCreate[BucketCreateRequest]{
			AccountID: accountID,
			Request:   request,
		},
	})

	return b
}

// AddDeleteBucket adds a bucket deletion operation.
func (b *BatchBuilder) AddDeleteBucket(id, accountID, name string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationDelete,
		Resource: BatchResourceBucket,
		Data: BucketRef{
			AccountID: accountID,
			Name:      name,
		},
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction represents a transactional batch of operations.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction. If any operation fails and rollback is
// enabled, successful creates are deleted again and ErrTransactionFailed is
// returned alongside the per-operation results.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	// Check for failures
	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	// If there were failures and rollback is enabled
	if len(failedOps) > 0 && t.rollback {
		// Attempt to rollback successful operations
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// rollbackOperation derives the inverse delete for a successful create. Only
// create responses that carry enough identity to address the resource can be
// inverted; deletes and updates are left for manual cleanup.
func rollbackOperation(original BatchOperation, result BatchResult) (BatchOperation, bool) {
	if original.Type != constants.OperationCreate || !result.Success {
		return BatchOperation{}, false
	}

	operation := BatchOperation{
		ID:       "rollback_" + original.ID,
		Type:     constants.OperationDelete,
		Resource: original.Resource,
	}

	switch data := result.Data.(type) {
	case *Zone:
		operation.Data = data.ID
	case *DNSRecord:
		operation.Data = ZoneResourceRef{ZoneID: data.ZoneID, ID: data.ID}
	case *APIToken:
		operation.Data = data.ID
	default:
		return BatchOperation{}, false
	}

	return operation, true
}

// performRollback attempts to rollback successful operations.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for index, result := range t.results {
		operation, ok := rollbackOperation(t.operations[index], result)
		if ok {
			rollbackOps = append(rollbackOps, operation)
		}
	}

	// Execute rollback operations if any
	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}
