package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

// Failed board operations are dropped without telling the client: a
// stale membership after a racing disconnect is expected, not misuse.

func (ctl *SignalWSController) decodeBoardRef(sid core.SessionID, data json.RawMessage) (domain.BoardRef, bool) {
	var p domain.BoardRef
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad board payload")
		return p, false
	}
	if err := ctl.validate.Struct(p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid board payload")
		return p, false
	}
	return p, true
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, data json.RawMessage) {
	p, ok := ctl.decodeBoardRef(sid, data)
	if !ok {
		return
	}
	if err := ctl.Orch.Join(sid, p.BoardID); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("board", string(p.BoardID)).Msg("join dropped")
	}
}

func (ctl *SignalWSController) handleLeave(sid core.SessionID, data json.RawMessage) {
	p, ok := ctl.decodeBoardRef(sid, data)
	if !ok {
		return
	}
	if err := ctl.Orch.Leave(sid, p.BoardID); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("board", string(p.BoardID)).Msg("leave dropped")
	}
}

func (ctl *SignalWSController) handleActivity(sid core.SessionID, data json.RawMessage) {
	act, err := domain.ParseActivity(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("activity dropped")
		return
	}
	err = ctl.Orch.Activity(sid, act)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrRateLimited):
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("activity rate limited")
	default:
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("board", string(act.BoardID)).Msg("activity dropped")
	}
}
