package v1

import (
	"net/http"

	"github.com/desweal/backend/internal/distribution"
	"github.com/desweal/backend/internal/httputil"
	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterSchemeRoutes registers the routes for distribution schemes with
// the RouterGroup that is passed.
func (co Controller) RegisterSchemeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSchemeList)
		r.GET("", co.GetSchemes)
		r.POST("", co.CreateSchemes)
	}

	// Presets and validation
	{
		r.OPTIONS("/presets", OptionsSchemePresets)
		r.GET("/presets", GetSchemePresets)
		r.OPTIONS("/validate", OptionsSchemeValidate)
		r.POST("/validate", ValidateScheme)
	}

	// Scheme with ID
	{
		r.OPTIONS("/:id", OptionsSchemeDetail)
		r.GET("/:id", co.GetScheme)
		r.PATCH("/:id", co.UpdateScheme)
		r.DELETE("/:id", co.DeleteScheme)
	}

	// Allocation
	{
		r.OPTIONS("/:id/allocate", OptionsSchemeAllocate)
		r.POST("/:id/allocate", co.AllocateScheme)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schemes
// @Success		204
// @Router			/v1/schemes [options]
func OptionsSchemeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schemes
// @Success		204
// @Router			/v1/schemes/presets [options]
func OptionsSchemePresets(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schemes
// @Success		204
// @Router			/v1/schemes/validate [options]
func OptionsSchemeValidate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schemes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schemes/{id} [options]
func OptionsSchemeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.DistributionScheme{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schemes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schemes/{id}/allocate [options]
func OptionsSchemeAllocate(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.DistributionScheme{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Get presets
// @Description	Returns the built-in distribution schemes
// @Tags			Schemes
// @Produce		json
// @Success		200	{object}	SchemePresetsResponse
// @Router			/v1/schemes/presets [get]
func GetSchemePresets(c *gin.Context) {
	c.JSON(http.StatusOK, SchemePresetsResponse{Data: distribution.Presets()})
}

// @Summary		Validate a scheme
// @Description	Checks a distribution scheme against the scheme invariants without storing it
// @Tags			Schemes
// @Accept			json
// @Produce		json
// @Success		200		{object}	SchemeValidationResponse
// @Failure		400		{object}	SchemeValidationResponse
// @Param			scheme	body		distribution.Scheme	true	"Scheme"
// @Router			/v1/schemes/validate [post]
func ValidateScheme(c *gin.Context) {
	var scheme distribution.Scheme

	err := httputil.BindData(c, &scheme)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeValidationResponse{Error: &s})
		return
	}

	if err := scheme.Validate(); err != nil {
		s := err.Error()
		c.JSON(http.StatusOK, SchemeValidationResponse{Valid: false, Error: &s})
		return
	}

	c.JSON(http.StatusOK, SchemeValidationResponse{Valid: true})
}

// @Summary		Create schemes
// @Description	Creates new distribution schemes
// @Tags			Schemes
// @Produce		json
// @Success		201		{object}	SchemeCreateResponse
// @Failure		400		{object}	SchemeCreateResponse
// @Failure		500		{object}	SchemeCreateResponse
// @Param			schemes	body		[]SchemeEditable	true	"Schemes"
// @Router			/v1/schemes [post]
func (co Controller) CreateSchemes(c *gin.Context) {
	var editables []SchemeEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SchemeCreateResponse{
			Error: &e,
		})
		return
	}

	responseStatus := http.StatusCreated
	r := SchemeCreateResponse{}

	for _, editable := range editables {
		scheme := editable.model()

		// Validate before storing so that invalid schemes do not produce
		// half-written bucket rows
		if err := scheme.Distribution().Validate(); err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		err = models.DB.Create(&scheme).Error
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		apiResource := newScheme(c, scheme)
		r.Data = append(r.Data, SchemeResponse{Data: &apiResource})
	}

	c.JSON(responseStatus, r)
}

// @Summary		Get schemes
// @Description	Returns a list of distribution schemes
// @Tags			Schemes
// @Produce		json
// @Success		200	{object}	SchemeListResponse
// @Failure		400	{object}	SchemeListResponse
// @Failure		500	{object}	SchemeListResponse
// @Router			/v1/schemes [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first scheme returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of schemes to return. Defaults to 50."
func (co Controller) GetSchemes(c *gin.Context) {
	var filter SchemeQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SchemeListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Preload("Buckets").
		Order("distribution_schemes.name ASC").
		Model(&models.DistributionScheme{})

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	var count int64
	err := q.Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeListResponse{
			Error: &s,
		})
		return
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 schemes and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var schemes []models.DistributionScheme
	err = q.Find(&schemes).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeListResponse{
			Error: &s,
		})
		return
	}

	apiResources := []Scheme{}
	for _, scheme := range schemes {
		apiResources = append(apiResources, newScheme(c, scheme))
	}

	c.JSON(http.StatusOK, SchemeListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get scheme
// @Description	Returns a specific distribution scheme
// @Tags			Schemes
// @Produce		json
// @Success		200	{object}	SchemeResponse
// @Failure		400	{object}	SchemeResponse
// @Failure		404	{object}	SchemeResponse
// @Failure		500	{object}	SchemeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schemes/{id} [get]
func (co Controller) GetScheme(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	var scheme models.DistributionScheme
	err = models.DB.Preload("Buckets").First(&scheme, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	apiResource := newScheme(c, scheme)
	c.JSON(http.StatusOK, SchemeResponse{Data: &apiResource})
}

// @Summary		Update scheme
// @Description	Updates the name and note of an existing scheme. Buckets cannot be changed, create a new scheme instead.
// @Tags			Schemes
// @Accept			json
// @Produce		json
// @Success		200		{object}	SchemeResponse
// @Failure		400		{object}	SchemeResponse
// @Failure		404		{object}	SchemeResponse
// @Failure		500		{object}	SchemeResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			scheme	body		SchemeEditable	true	"Scheme"
// @Router			/v1/schemes/{id} [patch]
func (co Controller) UpdateScheme(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	var scheme models.DistributionScheme
	err = models.DB.Preload("Buckets").First(&scheme, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SchemeEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	// Buckets are immutable once created
	updateFields = slices.DeleteFunc(updateFields, func(field any) bool {
		return field == "Buckets"
	})

	var editable SchemeEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&scheme).Omit("Buckets").Select("", updateFields...).Updates(models.DistributionScheme{Name: editable.Name, Note: editable.Note}).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SchemeResponse{
			Error: &s,
		})
		return
	}

	apiResource := newScheme(c, scheme)
	c.JSON(http.StatusOK, SchemeResponse{Data: &apiResource})
}

// @Summary		Delete scheme
// @Description	Deletes a distribution scheme and its buckets
// @Tags			Schemes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schemes/{id} [delete]
func (co Controller) DeleteScheme(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var scheme models.DistributionScheme
	err = models.DB.First(&scheme, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Select("Buckets").Delete(&scheme).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allocate income
// @Description	Applies the scheme to an income amount. The allocations always sum to exactly the income amount.
// @Tags			Schemes
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationResponse
// @Failure		400		{object}	AllocationResponse
// @Failure		404		{object}	AllocationResponse
// @Failure		500		{object}	AllocationResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			amount	body		AllocationRequest	true	"Income amount"
// @Router			/v1/schemes/{id}/allocate [post]
func (co Controller) AllocateScheme(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &s})
		return
	}

	var request AllocationRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &s})
		return
	}

	if !request.Amount.IsPositive() {
		s := errAmountNotSet.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &s})
		return
	}

	var scheme models.DistributionScheme
	err = models.DB.Preload("Buckets").First(&scheme, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &s})
		return
	}

	allocations, err := distribution.Allocate(request.Amount, scheme.Distribution())
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, AllocationResponse{Data: allocations})
}

// AllocationRequest is the income amount to distribute.
type AllocationRequest struct {
	Amount decimal.Decimal `json:"amount" example:"2000.00"` // The income amount to distribute, must be positive
}
