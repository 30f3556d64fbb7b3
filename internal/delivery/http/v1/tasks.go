package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/period"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

type userDTO struct {
	ID int64 `json:"id"`
}

type taskRequest struct {
	ID            *int64       `json:"id"`
	Title         *string      `json:"title" binding:"omitempty,max=255"`
	Description   *string      `json:"description"`
	ExecutionTime *time.Time   `json:"executionTime"`
	DurationMin   *int64       `json:"durationMin" binding:"omitempty,gte=0"`
	Closed        *bool        `json:"closed"`
	User          *userDTO     `json:"user"`
	Tags          []tagRequest `json:"tags" binding:"omitempty,dive"`
}

func (r *taskRequest) toModel() *models.Task {
	task := &models.Task{
		Title:         r.Title,
		Description:   r.Description,
		ExecutionTime: r.ExecutionTime,
		DurationMin:   r.DurationMin,
		Closed:        r.Closed,
	}
	if r.ID != nil {
		task.ID = *r.ID
	}
	if r.User != nil {
		task.User = models.UserRef{ID: r.User.ID}
	}
	if r.Tags != nil {
		task.Tags = make([]models.Tag, 0, len(r.Tags))
		for _, tag := range r.Tags {
			task.Tags = append(task.Tags, *tag.toModel())
		}
	}
	return task
}

type taskResponse struct {
	ID            int64         `json:"id"`
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	ExecutionTime *time.Time    `json:"executionTime"`
	DurationMin   *int64        `json:"durationMin"`
	Closed        *bool         `json:"closed"`
	User          userDTO       `json:"user"`
	Tags          []tagResponse `json:"tags"`
}

func newTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DurationMin: task.DurationMin,
		Closed:      task.Closed,
		User:        userDTO{ID: task.User.ID},
	}
	if task.ExecutionTime != nil {
		executionTime := task.ExecutionTime.UTC()
		resp.ExecutionTime = &executionTime
	}
	if task.Tags != nil {
		resp.Tags = make([]tagResponse, 0, len(task.Tags))
		for i := range task.Tags {
			resp.Tags = append(resp.Tags, newTagResponse(&task.Tags[i]))
		}
	}
	return resp
}

func newTaskResponses(tasks []*models.Task) []taskResponse {
	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	return resp
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	log := h.log(c)

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to bind json")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidPayload, errInvalidRequestBody.Error()))
		return
	}

	if req.ID != nil {
		log.Error().
			Int64("task_id", *req.ID).
			Msg("task to create already has an id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDExists, "A new task cannot already have an ID"))
		return
	}
	if req.User == nil || req.User.ID <= 0 {
		log.Error().Msg("no user provided")
		h.abort(c, newBadRequestError(entityTask, errKeyUserNull, "A task must belong to a user"))
		return
	}

	task, err := h.tasks.Save(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to create task")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	h.writeAlert(c, entityTask, actionCreated, task.ID)
	c.Header("Location", c.Request.URL.Path+"/"+strconv.FormatInt(task.ID, 10))
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	log := h.log(c)

	req, ok := h.bindTaskWithID(c)
	if !ok {
		return
	}
	if req.User == nil || req.User.ID <= 0 {
		log.Error().Msg("no user provided")
		h.abort(c, newBadRequestError(entityTask, errKeyUserNull, "A task must belong to a user"))
		return
	}

	task, err := h.tasks.Update(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Int64("task_id", *req.ID).
			Msg("failed to update task")
		if errors.Is(err, services.ErrTaskNotFound) {
			h.abort(c, newBadRequestError(entityTask, errKeyIDNotFound, "Entity not found"))
			return
		}
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	h.writeAlert(c, entityTask, actionUpdated, task.ID)
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandlePartialUpdateTask(c *gin.Context) {
	log := h.log(c)

	req, ok := h.bindTaskWithID(c)
	if !ok {
		return
	}

	task, err := h.tasks.PartialUpdate(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Int64("task_id", *req.ID).
			Msg("failed to partially update task")
		if errors.Is(err, services.ErrTaskNotFound) {
			h.abort(c, newBadRequestError(entityTask, errKeyIDNotFound, "Entity not found"))
			return
		}
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Info().
		Int64("task_id", task.ID).
		Msg("partially updated task")
	h.writeAlert(c, entityTask, actionUpdated, task.ID)
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// bindTaskWithID binds the body of an update and checks that its id matches
// the path. It aborts the request and returns false on failure.
func (h *handlerImpl) bindTaskWithID(c *gin.Context) (*taskRequest, bool) {
	log := h.log(c)

	pathID, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid task id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid ID"))
		return nil, false
	}

	var req taskRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to bind json")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidPayload, errInvalidRequestBody.Error()))
		return nil, false
	}

	if req.ID == nil {
		log.Error().Msg("no task id in body")
		h.abort(c, newBadRequestError(entityTask, errKeyIDNull, "Invalid id"))
		return nil, false
	}
	if *req.ID != pathID {
		log.Error().
			Int64("path_id", pathID).
			Int64("body_id", *req.ID).
			Msg("task id mismatch")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid ID"))
		return nil, false
	}
	return &req, true
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAll(c, pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	log := h.log(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid task id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid ID"))
		return
	}

	task, err := h.tasks.FindOne(c, id)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("task_id", id).
			Msg("failed to fetch task")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	log := h.log(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid task id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid ID"))
		return
	}

	err = h.tasks.Delete(c, id)
	if err != nil {
		log.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Info().
		Int64("task_id", id).
		Msg("deleted task")
	h.writeAlert(c, entityTask, actionDeleted, id)
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetUserTasks(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}
	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAllByUser(c, userID, pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleGetTasksByTitle(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}
	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAllByUserAndTitle(c, userID, c.Param("title"), pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleGetTasksByDay(c *gin.Context) {
	log := h.log(c)

	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	day, err := period.ParseDay(c.Param("day"), h.location)
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid day")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidDay, err.Error()))
		return
	}

	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAllByUserAndDay(c, userID, day.Year, day.Month, day.Day, pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleGetTasksByWeek(c *gin.Context) {
	log := h.log(c)

	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	week, err := period.ParseWeek(c.Param("week"), h.location)
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid week")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidWeek, err.Error()))
		return
	}

	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAllByUserAndWeekRange(c, userID, week.Start, week.End, pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleGetTasksByMonth(c *gin.Context) {
	log := h.log(c)

	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	year, month, err := period.ParseMonth(c.Param("month"))
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid month")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidMonth, err.Error()))
		return
	}

	pageable, eager, ok := h.parseListParams(c)
	if !ok {
		return
	}

	page, err := h.tasks.FindAllByUserAndMonth(c, userID, year, month, pageable, eager)
	h.respondTaskPage(c, page, err)
}

func (h *handlerImpl) HandleUpdateTaskTags(c *gin.Context) {
	log := h.log(c)

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid task id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid ID"))
		return
	}

	var req []tagRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to bind json")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidPayload, errInvalidRequestBody.Error()))
		return
	}

	tags := make([]models.Tag, 0, len(req))
	for _, tag := range req {
		tags = append(tags, *tag.toModel())
	}

	task, err := h.tasks.UpdateTags(c, taskID, tags)
	if err != nil {
		log.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task tags")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Info().
		Int64("task_id", taskID).
		Int("tags", len(task.Tags)).
		Msg("updated task tags")
	h.writeAlert(c, entityTask, actionUpdated, taskID)
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) respondTaskPage(c *gin.Context, page models.Page[*models.Task], err error) {
	log := h.log(c)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to fetch tasks")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	log.Debug().
		Int("count", len(page.Items)).
		Int64("total", page.Total).
		Msg("fetched tasks")
	writePaginationHeaders(c, page)
	c.JSON(http.StatusOK, newTaskResponses(page.Items))
}

func (h *handlerImpl) parseListParams(c *gin.Context) (models.Pageable, bool, bool) {
	log := h.log(c)

	pageable, err := parsePageable(c)
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid paging parameters")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidPaging, err.Error()))
		return pageable, false, false
	}

	eager, err := parseEagerLoad(c)
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid eagerload flag")
		h.abort(c, newBadRequestError(entityTask, errKeyInvalidPaging, "eagerload must be a boolean"))
		return pageable, false, false
	}
	return pageable, eager, true
}

func (h *handlerImpl) parseUserID(c *gin.Context) (int64, bool) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		h.log(c).Error().
			Err(err).
			Msg("invalid user id")
		h.abort(c, newBadRequestError(entityTask, errKeyIDInvalid, "Invalid user ID"))
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
