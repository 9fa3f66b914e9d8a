package v1

import (
	"net/http"
	"time"

	"github.com/desweal/backend/internal/httputil"
	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterGoalRoutes registers the routes for savings goals with
// the RouterGroup that is passed.
func (co Controller) RegisterGoalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsGoalList)
		r.GET("", co.GetGoals)
		r.POST("", co.CreateGoals)
	}

	// Goal with ID
	{
		r.OPTIONS("/:id", OptionsGoalDetail)
		r.GET("/:id", co.GetGoal)
		r.PATCH("/:id", co.UpdateGoal)
		r.DELETE("/:id", co.DeleteGoal)
	}

	// Progress
	{
		r.OPTIONS("/:id/progress", OptionsGoalProgress)
		r.GET("/:id/progress", co.GetGoalProgress)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func OptionsGoalList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [options]
func OptionsGoalDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.SavingsGoal{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/progress [options]
func OptionsGoalProgress(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.SavingsGoal{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create goals
// @Description	Creates new savings goals
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalCreateResponse
// @Failure		400		{object}	GoalCreateResponse
// @Failure		500		{object}	GoalCreateResponse
// @Param			goals	body		[]GoalEditable	true	"Goals"
// @Router			/v1/goals [post]
func (co Controller) CreateGoals(c *gin.Context) {
	var editables []GoalEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{
			Error: &e,
		})
		return
	}

	responseStatus := http.StatusCreated
	r := GoalCreateResponse{}

	for _, editable := range editables {
		goal := editable.model()
		err = models.DB.Create(&goal).Error
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		apiResource := newGoal(c, goal)
		r.Data = append(r.Data, GoalResponse{Data: &apiResource})
	}

	c.JSON(responseStatus, r)
}

// @Summary		Get goals
// @Description	Returns a list of savings goals
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		400	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			archived	query	bool	false	"Is the goal archived?"
// @Param			offset		query	uint	false	"The offset of the first goal returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of goals to return. Defaults to 50."
func (co Controller) GetGoals(c *gin.Context) {
	var filter GoalQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()

	q := models.DB.
		Order("savings_goals.name ASC").
		Model(&models.SavingsGoal{}).
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	var count int64
	err := q.Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &s,
		})
		return
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 goals and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var goalModels []models.SavingsGoal
	err = q.Find(&goalModels).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &s,
		})
		return
	}

	apiResources := []Goal{}
	for _, goal := range goalModels {
		apiResources = append(apiResources, newGoal(c, goal))
	}

	c.JSON(http.StatusOK, GoalListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get goal
// @Description	Returns a specific savings goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	GoalResponse
// @Failure		404	{object}	GoalResponse
// @Failure		500	{object}	GoalResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [get]
func (co Controller) GetGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	var goal models.SavingsGoal
	err = models.DB.First(&goal, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Update goal
// @Description	Updates an existing goal. Only values to be updated need to be specified. Archiving is one-way, archived goals reject all updates.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func (co Controller) UpdateGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	var goal models.SavingsGoal
	err = models.DB.First(&goal, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, GoalEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	var editable GoalEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&goal).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Delete goal
// @Description	Deletes a savings goal
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [delete]
func (co Controller) DeleteGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var goal models.SavingsGoal
	err = models.DB.First(&goal, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&goal).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get progress
// @Description	Returns the progress and projected completion of a savings goal, derived from the ledger
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalProgressResponse
// @Failure		400	{object}	GoalProgressResponse
// @Failure		404	{object}	GoalProgressResponse
// @Failure		500	{object}	GoalProgressResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/progress [get]
func (co Controller) GetGoalProgress(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	var goal models.SavingsGoal
	err = models.DB.First(&goal, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	progress, err := co.Tracker.Progress(goal)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	projected, err := co.Tracker.ProjectedCompletion(goal, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, GoalProgressResponse{
		Data: &GoalProgress{
			Progress:            progress,
			ProjectedCompletion: projected,
		},
	})
}
