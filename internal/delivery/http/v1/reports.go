package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type relationshipResponse struct {
	TaskID        int64      `json:"taskId"`
	Title         *string    `json:"title"`
	ExecutionTime *time.Time `json:"executionTime"`
	DurationMin   *int64     `json:"durationMin"`
	Closed        bool       `json:"closed"`
	TagID         *int64     `json:"tagId"`
	TagName       *string    `json:"tagName"`
}

type resolutionResponse struct {
	TagID      int64   `json:"tagId"`
	TagName    *string `json:"tagName"`
	Resolved   int64   `json:"resolved"`
	Unresolved int64   `json:"unresolved"`
}

func (h *handlerImpl) HandleGetRelationshipReport(c *gin.Context) {
	log := h.log(c)

	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	rows, err := h.tasks.TasksForRelationshipReport(c, userID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to build relationship report")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	resp := make([]relationshipResponse, 0, len(rows))
	for _, row := range rows {
		item := relationshipResponse{
			TaskID:      row.TaskID,
			Title:       row.TaskTitle,
			DurationMin: row.DurationMin,
			Closed:      row.Closed,
			TagName:     row.TagName,
		}
		if row.ExecutionTime != nil {
			executionTime := row.ExecutionTime.UTC()
			item.ExecutionTime = &executionTime
		}
		if row.TagID != 0 {
			tagID := row.TagID
			item.TagID = &tagID
		}
		resp = append(resp, item)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleGetResolvedReport(c *gin.Context) {
	log := h.log(c)

	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	counts, err := h.tasks.CountResolvedTasksByTag(c, userID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to count resolved tasks by tag")
		h.abort(c, serviceError(entityTask, err))
		return
	}

	resp := make([]resolutionResponse, 0, len(counts))
	for _, count := range counts {
		resp = append(resp, resolutionResponse{
			TagID:      count.TagID,
			TagName:    count.TagName,
			Resolved:   count.Resolved,
			Unresolved: count.Unresolved,
		})
	}

	c.JSON(http.StatusOK, resp)
}
