package v1

import (
	"net/http"
	"time"

	"github.com/desweal/backend/internal/httputil"
	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransactions)
	}

	// Totals
	{
		r.OPTIONS("/totals", OptionsTransactionTotals)
		r.GET("/totals", co.GetTransactionTotals)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/totals [options]
func OptionsTransactionTotals(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Transaction{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create transactions
// @Description	Appends new transactions to the ledger
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		404				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]TransactionEditable	true	"Transactions"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	responseStatus := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		transaction := editable.model()
		err = co.Ledger.Append(&transaction)
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		// Transform for the API and append
		apiResource := newTransaction(c, transaction)
		r.Data = append(r.Data, TransactionResponse{Data: &apiResource})
	}

	c.JSON(responseStatus, r)
}

// @Summary		Get transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			date		query	string	false	"Date of the transaction (YYYY-MM-DD), matches the whole day"
// @Param			fromDate	query	string	false	"Transactions at or after this date (YYYY-MM-DD)"
// @Param			untilDate	query	string	false	"Transactions before this date (YYYY-MM-DD), exclusive"
// @Param			category	query	string	false	"Filter by category"
// @Param			note		query	string	false	"Filter by note"
// @Param			recurring	query	bool	false	"Is the transaction recurring?"
// @Param			goal		query	string	false	"Filter by savings goal ID"
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func (co Controller) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	ledgerFilter, err := filter.ledgerFilter(setFields)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	// Default to 50 Transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	count, err := co.Ledger.CountMatching(ledgerFilter)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	transactions := []Transaction{}
	var index uint
	for transaction, err := range co.Ledger.Transactions(ledgerFilter) {
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionListResponse{
				Error: &s,
			})
			return
		}

		// The offset is applied while iterating since the sequence is lazy
		if index >= filter.Offset {
			if limit >= 0 && len(transactions) >= limit {
				break
			}
			transactions = append(transactions, newTransaction(c, transaction))
		}
		index++
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: transactions,
		Pagination: &Pagination{
			Count:  len(transactions),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified. The updated transaction is a new version, the timestamps track the correction.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	// Get the fields set in the body so that only they are updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var editable TransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&transaction).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Delete transaction
// @Description	Soft-deletes a transaction. The transaction stays in the ledger with a deletion timestamp and is excluded from all aggregates.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Ledger.SoftDelete(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get totals
// @Description	Returns the summed amounts of all non-deleted transactions by category
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionTotalsResponse
// @Failure		400	{object}	TransactionTotalsResponse
// @Failure		500	{object}	TransactionTotalsResponse
// @Param			fromDate	query	string	false	"Transactions at or after this date (YYYY-MM-DD)"
// @Param			untilDate	query	string	false	"Transactions before this date (YYYY-MM-DD), exclusive"
// @Router			/v1/transactions/totals [get]
func (co Controller) GetTransactionTotals(c *gin.Context) {
	var params struct {
		FromDate  string `form:"fromDate"`
		UntilDate string `form:"untilDate"`
	}

	if err := c.Bind(&params); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionTotalsResponse{
			Error: &s,
		})
		return
	}

	var from, until *time.Time
	if params.FromDate != "" {
		f, err := time.Parse("2006-01-02", params.FromDate)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, TransactionTotalsResponse{
				Error: &s,
			})
			return
		}
		from = &f
	}

	if params.UntilDate != "" {
		u, err := time.Parse("2006-01-02", params.UntilDate)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, TransactionTotalsResponse{
				Error: &s,
			})
			return
		}
		until = &u
	}

	totals, err := co.Ledger.TotalsByCategory(from, until)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionTotalsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, TransactionTotalsResponse{Data: totals})
}
