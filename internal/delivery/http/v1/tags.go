package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

type tagRequest struct {
	ID   *int64   `json:"id"`
	Name *string  `json:"name" binding:"omitempty,max=255"`
	User *userDTO `json:"user"`
}

func (r *tagRequest) toModel() *models.Tag {
	tag := &models.Tag{Name: r.Name}
	if r.ID != nil {
		tag.ID = *r.ID
	}
	if r.User != nil {
		tag.User = models.UserRef{ID: r.User.ID}
	}
	return tag
}

type taskRefResponse struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
}

type tagResponse struct {
	ID    int64             `json:"id"`
	Name  *string           `json:"name"`
	User  userDTO           `json:"user"`
	Tasks []taskRefResponse `json:"tasks,omitempty"`
}

func newTagResponse(tag *models.Tag) tagResponse {
	resp := tagResponse{
		ID:   tag.ID,
		Name: tag.Name,
		User: userDTO{ID: tag.User.ID},
	}
	if tag.Tasks != nil {
		resp.Tasks = make([]taskRefResponse, 0, len(tag.Tasks))
		for _, ref := range tag.Tasks {
			resp.Tasks = append(resp.Tasks, taskRefResponse{ID: ref.ID, Title: ref.Title})
		}
	}
	return resp
}

func (h *handlerImpl) HandleCreateTag(c *gin.Context) {
	log := h.log(c)

	var req tagRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to bind json")
		h.abort(c, newBadRequestError(entityTag, errKeyInvalidPayload, errInvalidRequestBody.Error()))
		return
	}

	if req.ID != nil {
		log.Error().
			Int64("tag_id", *req.ID).
			Msg("tag to create already has an id")
		h.abort(c, newBadRequestError(entityTag, errKeyIDExists, "A new tag cannot already have an ID"))
		return
	}
	if req.User == nil || req.User.ID <= 0 {
		log.Error().Msg("no user provided")
		h.abort(c, newBadRequestError(entityTag, errKeyUserNull, "A tag must belong to a user"))
		return
	}

	tag, err := h.tags.Save(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to create tag")
		h.abort(c, serviceError(entityTag, err))
		return
	}

	log.Info().
		Int64("tag_id", tag.ID).
		Msg("created tag")
	h.writeAlert(c, entityTag, actionCreated, tag.ID)
	c.Header("Location", c.Request.URL.Path+"/"+strconv.FormatInt(tag.ID, 10))
	c.JSON(http.StatusCreated, newTagResponse(tag))
}

func (h *handlerImpl) HandleUpdateTag(c *gin.Context) {
	log := h.log(c)

	req, ok := h.bindTagWithID(c)
	if !ok {
		return
	}
	if req.User == nil || req.User.ID <= 0 {
		log.Error().Msg("no user provided")
		h.abort(c, newBadRequestError(entityTag, errKeyUserNull, "A tag must belong to a user"))
		return
	}

	tag, err := h.tags.Update(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Int64("tag_id", *req.ID).
			Msg("failed to update tag")
		if errors.Is(err, services.ErrTagNotFound) {
			h.abort(c, newBadRequestError(entityTag, errKeyIDNotFound, "Entity not found"))
			return
		}
		h.abort(c, serviceError(entityTag, err))
		return
	}

	log.Info().
		Int64("tag_id", tag.ID).
		Msg("updated tag")
	h.writeAlert(c, entityTag, actionUpdated, tag.ID)
	c.JSON(http.StatusOK, newTagResponse(tag))
}

func (h *handlerImpl) HandlePartialUpdateTag(c *gin.Context) {
	log := h.log(c)

	req, ok := h.bindTagWithID(c)
	if !ok {
		return
	}

	tag, err := h.tags.PartialUpdate(c, req.toModel())
	if err != nil {
		log.Error().
			Err(err).
			Int64("tag_id", *req.ID).
			Msg("failed to partially update tag")
		if errors.Is(err, services.ErrTagNotFound) {
			h.abort(c, newBadRequestError(entityTag, errKeyIDNotFound, "Entity not found"))
			return
		}
		h.abort(c, serviceError(entityTag, err))
		return
	}

	log.Info().
		Int64("tag_id", tag.ID).
		Msg("partially updated tag")
	h.writeAlert(c, entityTag, actionUpdated, tag.ID)
	c.JSON(http.StatusOK, newTagResponse(tag))
}

func (h *handlerImpl) bindTagWithID(c *gin.Context) (*tagRequest, bool) {
	log := h.log(c)

	pathID, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid tag id")
		h.abort(c, newBadRequestError(entityTag, errKeyIDInvalid, "Invalid ID"))
		return nil, false
	}

	var req tagRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to bind json")
		h.abort(c, newBadRequestError(entityTag, errKeyInvalidPayload, errInvalidRequestBody.Error()))
		return nil, false
	}

	if req.ID == nil {
		log.Error().Msg("no tag id in body")
		h.abort(c, newBadRequestError(entityTag, errKeyIDNull, "Invalid id"))
		return nil, false
	}
	if *req.ID != pathID {
		log.Error().
			Int64("path_id", pathID).
			Int64("body_id", *req.ID).
			Msg("tag id mismatch")
		h.abort(c, newBadRequestError(entityTag, errKeyIDInvalid, "Invalid ID"))
		return nil, false
	}
	return &req, true
}

func (h *handlerImpl) HandleGetTags(c *gin.Context) {
	pageable, ok := h.parseTagPageable(c)
	if !ok {
		return
	}

	page, err := h.tags.FindAll(c, pageable)
	h.respondTagPage(c, page, err)
}

func (h *handlerImpl) HandleGetUserTags(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}
	pageable, ok := h.parseTagPageable(c)
	if !ok {
		return
	}

	page, err := h.tags.FindAllByUser(c, userID, pageable)
	h.respondTagPage(c, page, err)
}

func (h *handlerImpl) HandleGetTag(c *gin.Context) {
	log := h.log(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid tag id")
		h.abort(c, newBadRequestError(entityTag, errKeyIDInvalid, "Invalid ID"))
		return
	}

	tag, err := h.tags.FindOne(c, id)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to fetch tag")
		h.abort(c, serviceError(entityTag, err))
		return
	}

	c.JSON(http.StatusOK, newTagResponse(tag))
}

func (h *handlerImpl) HandleDeleteTag(c *gin.Context) {
	log := h.log(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Error().
			Err(err).
			Msg("invalid tag id")
		h.abort(c, newBadRequestError(entityTag, errKeyIDInvalid, "Invalid ID"))
		return
	}

	err = h.tags.Delete(c, id)
	if err != nil {
		log.Error().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to delete tag")
		h.abort(c, serviceError(entityTag, err))
		return
	}

	log.Info().
		Int64("tag_id", id).
		Msg("deleted tag")
	h.writeAlert(c, entityTag, actionDeleted, id)
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) parseTagPageable(c *gin.Context) (models.Pageable, bool) {
	pageable, err := parsePageable(c)
	if err != nil {
		h.log(c).Error().
			Err(err).
			Msg("invalid paging parameters")
		h.abort(c, newBadRequestError(entityTag, errKeyInvalidPaging, err.Error()))
		return pageable, false
	}
	return pageable, true
}

func (h *handlerImpl) respondTagPage(c *gin.Context, page models.Page[*models.Tag], err error) {
	log := h.log(c)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to fetch tags")
		h.abort(c, serviceError(entityTag, err))
		return
	}

	resp := make([]tagResponse, 0, len(page.Items))
	for _, tag := range page.Items {
		resp = append(resp, newTagResponse(tag))
	}

	log.Debug().
		Int("count", len(resp)).
		Int64("total", page.Total).
		Msg("fetched tags")
	writePaginationHeaders(c, page)
	c.JSON(http.StatusOK, resp)
}
