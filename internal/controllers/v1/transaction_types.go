package v1

import (
	"fmt"
	"time"

	"github.com/desweal/backend/internal/ledger"
	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	Date time.Time `json:"date" example:"2024-03-12T18:43:00.271152Z"` // Date of the transaction. Time is only used for sorting

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"14.03" multipleOf:"0.00000001"` // The signed amount for the transaction, must not be zero

	Category      models.Category `json:"category" example:"expense"`                                    // One of income, expense, savings, investment, debt. Empty categories are filled in from the category rules
	Note          string          `json:"note" example:"Lunch" default:""`                               // A note
	Recurring     bool            `json:"recurring" example:"false" default:"false"`                     // Whether this transaction recurs regularly
	AttachmentRef string          `json:"attachmentRef" example:"receipts/2024/03/lunch.pdf" default:""` // Reference to an attached document
	GoalID        *uuid.UUID      `json:"goalId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`         // ID of the savings goal this transaction contributes to
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Date:          editable.Date,
		Amount:        editable.Amount,
		Category:      editable.Category,
		Note:          editable.Note,
		Recurring:     editable.Recurring,
		AttachmentRef: editable.AttachmentRef,
		GoalID:        editable.GoalID,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Date:          model.Date,
			Amount:        model.Amount,
			Category:      model.Category,
			Note:          model.Note,
			Recurring:     model.Recurring,
			AttachmentRef: model.AttachmentRef,
			GoalID:        model.GoalID,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created Transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The Transaction data, if creation was successful
}

// TransactionTotalsResponse contains the summed amounts per category.
type TransactionTotalsResponse struct {
	Data  map[models.Category]decimal.Decimal `json:"data"`                                                          // Summed amounts by category
	Error *string                             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	Date      string `form:"date" filterField:"false"`      // Date of the transaction (YYYY-MM-DD), matches the whole day
	FromDate  string `form:"fromDate" filterField:"false"`  // Transactions at or after this date (YYYY-MM-DD)
	UntilDate string `form:"untilDate" filterField:"false"` // Transactions before this date (YYYY-MM-DD), exclusive
	Category  string `form:"category" filterField:"false"`  // Filter by category
	Note      string `form:"note" filterField:"false"`      // Filter by note
	Recurring bool   `form:"recurring" filterField:"false"` // Is the transaction recurring?
	Goal      string `form:"goal" filterField:"false"`      // Filter by savings goal ID
	Offset    uint   `form:"offset" filterField:"false"`    // The offset of the first Transaction returned. Defaults to 0.
	Limit     int    `form:"limit" filterField:"false"`     // Maximum number of Transactions to return. Defaults to 50.
}

// ledgerFilter parses the query filter into the filter the ledger works on.
func (f TransactionQueryFilter) ledgerFilter(setFields []string) (ledger.Filter, error) {
	filter := ledger.Filter{
		Category: models.Category(f.Category),
		Note:     f.Note,
	}

	if f.Date != "" {
		day, err := time.Parse("2006-01-02", f.Date)
		if err != nil {
			return ledger.Filter{}, err
		}

		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.Until = &next
	}

	if f.FromDate != "" {
		from, err := time.Parse("2006-01-02", f.FromDate)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.From = &from
	}

	if f.UntilDate != "" {
		until, err := time.Parse("2006-01-02", f.UntilDate)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.Until = &until
	}

	if f.Goal != "" {
		id, err := uuid.Parse(f.Goal)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.GoalID = &id
	}

	for _, field := range setFields {
		if field == "Recurring" {
			recurring := f.Recurring
			filter.Recurring = &recurring
		}
	}

	return filter, nil
}
