package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diamonddb/diamond-node/internal/validation"
	"github.com/diamonddb/diamond-node/pkg/catalog"
)

type Operation string

const (
	OperationInitializePersistance Operation = "INITIALIZE_PERSISTANCE"
	OperationUpdateMeta            Operation = "UPDATE_META"
	OperationMakeTable             Operation = "MAKE_TABLE"
	OperationStoreRecord           Operation = "STORE_RECORD"
	OperationFetchRecord           Operation = "FETCH_RECORD"
	OperationFilterRecords         Operation = "FILTER_RECORDS"
	OperationPersistAll            Operation = "PERSIST_ALL"
)

// Message is a single request to the engine. Data holds the payload of the
// operation, either as its input struct or as decoded JSON.
type Message struct {
	Operation Operation `json:"operation"`
	Data      any       `json:"data"`
}

// Result is the outcome of a message. Error is set when Success is false.
type Result struct {
	Success bool  `json:"success"`
	Data    any   `json:"data,omitempty"`
	Error   error `json:"-"`
}

type UpdateMetaInput struct {
	Tables map[string]*catalog.Table `json:"tables" validate:"required"`
}

type CreateTableInput struct {
	Table *catalog.Table `json:"table" validate:"required"`
}

type StoreRecordInput struct {
	Table  string         `json:"table" validate:"required"`
	ID     int64          `json:"id" validate:"gte=0"`
	Record catalog.Record `json:"record" validate:"required"`
}

type FetchRecordInput struct {
	Table string `json:"table" validate:"required"`
	ID    int64  `json:"id" validate:"gte=0"`
}

type FilterRecordsInput struct {
	Table string `json:"table" validate:"required"`
	Query Query  `json:"query" validate:"required"`
}

var inputValidationMessages = map[string]string{
	"tables.required":           "The table mapping is required",
	"table.required":            "The table is required",
	"id.gte":                    "The record id cannot be negative",
	"record.required":           "The record is required",
	"query.required":            "The query is required",
	"query.key.required":        "The query key is required",
	"query.comparator.required": "The query comparator is required",
}

// Message dispatches a request to the matching operation.
func (e *Engine) Message(ctx context.Context, message Message) Result {
	data, err := e.dispatch(ctx, message)

	if err != nil {
		return Result{Success: false, Error: err}
	}

	return Result{Success: true, Data: data}
}

func (e *Engine) dispatch(ctx context.Context, message Message) (any, error) {
	switch message.Operation {
	case OperationInitializePersistance:
		return e.Initialize(ctx)
	case OperationUpdateMeta:
		input, err := decodeInput[UpdateMetaInput](message.Data)

		if err != nil {
			return nil, err
		}

		return nil, e.UpdateMeta(ctx, input.Tables)
	case OperationMakeTable:
		input, err := decodeInput[CreateTableInput](message.Data)

		if err != nil {
			return nil, err
		}

		return nil, e.CreateTable(ctx, input.Table)
	case OperationStoreRecord:
		input, err := decodeInput[StoreRecordInput](message.Data)

		if err != nil {
			return nil, err
		}

		return nil, e.StoreRecord(ctx, input.Table, input.ID, input.Record)
	case OperationFetchRecord:
		input, err := decodeInput[FetchRecordInput](message.Data)

		if err != nil {
			return nil, err
		}

		return e.Fetch(ctx, input.Table, input.ID)
	case OperationFilterRecords:
		input, err := decodeInput[FilterRecordsInput](message.Data)

		if err != nil {
			return nil, err
		}

		return e.Filter(ctx, input.Table, input.Query)
	case OperationPersistAll:
		return nil, e.Persist(ctx)
	}

	return nil, catalog.NewFieldValidationError("operation", fmt.Sprintf("The operation %s is not supported", message.Operation))
}

// Convert a message payload into its input struct and validate it.
func decodeInput[T any](data any) (*T, error) {
	var input *T

	switch value := data.(type) {
	case *T:
		input = value
	case T:
		input = &value
	case nil:
		input = new(T)
	default:
		var raw []byte

		switch value := data.(type) {
		case []byte:
			raw = value
		case json.RawMessage:
			raw = value
		case string:
			raw = []byte(value)
		default:
			encoded, err := json.Marshal(value)

			if err != nil {
				return nil, catalog.NewFieldValidationError("data", "The payload could not be read")
			}

			raw = encoded
		}

		input = new(T)

		if err := json.Unmarshal(raw, input); err != nil {
			return nil, catalog.NewFieldValidationError("data", fmt.Sprintf("The payload is malformed: %v", err))
		}
	}

	if input == nil {
		input = new(T)
	}

	if errs := validation.Validate(input, inputValidationMessages); errs != nil {
		return nil, catalog.NewValidationError(errs)
	}

	return input, nil
}
