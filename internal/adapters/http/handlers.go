package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app/orch"
	"github.com/dkeye/Presence/internal/domain"
)

type SessionRequest struct {
	Token string `json:"token" binding:"required"`
}

type DeliveredResponse struct {
	Delivered int `json:"delivered"`
}

type userURI struct {
	UserID string `uri:"userId" binding:"required,max=64"`
}

type boardURI struct {
	BoardID string `uri:"boardId" binding:"required,max=128"`
}

type updateURI struct {
	BoardID string `uri:"boardId" binding:"required,max=128"`
	Kind    string `uri:"kind" binding:"required,oneof=board task member column"`
}

// createSession stores a verified token in the cookie session so browser
// clients can open /api/ws without putting it in the URL.
func createSession(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
			return
		}
		id, err := o.Admit(c.Request.Context(), req.Token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		s := sessions.Default(c)
		s.Set(sessionTokenKey, req.Token)
		if err := s.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
			return
		}
		c.JSON(http.StatusOK, id)
	}
}

func deleteSession(c *gin.Context) {
	s := sessions.Default(c)
	s.Delete(sessionTokenKey)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
	}
	c.Status(http.StatusNoContent)
}

// bindMessage reads a JSON object body; anything else is a bad request.
func bindMessage(c *gin.Context) (map[string]any, bool) {
	var msg map[string]any
	if err := c.ShouldBindJSON(&msg); err != nil || msg == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return nil, false
	}
	return msg, true
}

func delivered(c *gin.Context, n int) {
	c.JSON(http.StatusAccepted, DeliveredResponse{Delivered: n})
}

func notifyUser(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri userURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, ok := bindMessage(c)
		if !ok {
			return
		}
		n := 0
		if o.Notify(domain.UserID(uri.UserID), msg) {
			n = 1
		}
		delivered(c, n)
	}
}

func notifyBoard(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri boardURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, ok := bindMessage(c)
		if !ok {
			return
		}
		delivered(c, o.Broadcast(domain.BoardID(uri.BoardID), msg))
	}
}

func boardUpdate(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri updateURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, ok := bindMessage(c)
		if !ok {
			return
		}
		n, err := o.BroadcastUpdate(domain.BoardID(uri.BoardID), domain.UpdateKind(uri.Kind), msg)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		delivered(c, n)
	}
}

func boardMembers(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri boardURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		board := domain.BoardID(uri.BoardID)
		members := o.Members(board)
		c.JSON(http.StatusOK, gin.H{"boardId": board, "count": len(members), "members": members})
	}
}
