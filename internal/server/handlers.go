package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"liquidchecker/internal/analytics"
	"liquidchecker/internal/domain"
	"liquidchecker/internal/engagement"
	"liquidchecker/internal/liquidlaunch"
	"liquidchecker/internal/storage"
	"liquidchecker/internal/wallet"
)

const (
	maxPageSize    = 100
	defaultRankLen = 10
)

// handleTokens serves the token listing with engagement merged in.
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	q := liquidlaunch.DefaultQuery()
	params := r.URL.Query()

	if page, err := strconv.Atoi(params.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(params.Get("limit")); err == nil && limit > 0 {
		if limit > maxPageSize {
			limit = maxPageSize
		}
		q.Limit = limit
	}
	if search := params.Get("search"); search != "" {
		q.Search = search
	}
	if key := params.Get("sortKey"); key != "" {
		q.SortKey = key
	}
	if order := params.Get("sortOrder"); order != "" {
		q.SortOrder = order
	}
	if view := params.Get("view"); view != "" {
		q.View = view
	}

	page, err := s.lister.ListTokens(r.Context(), q)
	if err != nil {
		s.log.Error().Err(err).Msg("list tokens failed")
		writeError(w, http.StatusBadGateway, "token listing unavailable")
		return
	}

	// The upstream order is advisory; re-sort locally so the listing is
	// deterministic even when the API ignores the sort params.
	analytics.SortTokens(page.Tokens, q.SortKey, q.SortOrder != "asc")

	aggs, err := s.engagement(w, r, page.Tokens)
	if err != nil {
		return
	}

	views := make([]tokenView, 0, len(page.Tokens))
	for _, t := range page.Tokens {
		views = append(views, newTokenView(t, aggs[t.Address]))
	}

	writeJSON(w, map[string]interface{}{
		"tokens":     views,
		"totalCount": page.TotalCount,
		"page":       q.Page,
	})
}

// handleTokenDetail serves a single token with engagement merged in.
func (s *Server) handleTokenDetail(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	token, err := s.lister.TokenStats(r.Context(), address)
	if err != nil {
		var statusErr *liquidlaunch.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "token not found")
			return
		}
		s.log.Error().Err(err).Str("token", address).Msg("token stats failed")
		writeError(w, http.StatusBadGateway, "token stats unavailable")
		return
	}

	aggs, err := s.engagement(w, r, []domain.Token{*token})
	if err != nil {
		return
	}
	writeJSON(w, newTokenView(*token, aggs[token.Address]))
}

// engagement fetches aggregates for the listed tokens, writing the error
// response itself on failure.
func (s *Server) engagement(w http.ResponseWriter, r *http.Request, tokens []domain.Token) (map[string]domain.Aggregate, error) {
	addresses := make([]string, 0, len(tokens))
	for _, t := range tokens {
		addresses = append(addresses, t.Address)
	}
	aggs, err := s.engage.Engagement(r.Context(), addresses)
	if err != nil {
		s.log.Error().Err(err).Msg("engagement aggregation failed")
		writeError(w, http.StatusInternalServerError, "engagement unavailable")
		return nil, err
	}
	return aggs, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	page, err := s.lister.ListTokens(r.Context(), liquidlaunch.DefaultQuery())
	if err != nil {
		s.log.Error().Err(err).Msg("list tokens failed")
		writeError(w, http.StatusBadGateway, "token listing unavailable")
		return
	}
	writeJSON(w, newStatsView(analytics.ComputeMarketStats(page.Tokens)))
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	page, err := s.lister.ListTokens(r.Context(), liquidlaunch.DefaultQuery())
	if err != nil {
		s.log.Error().Err(err).Msg("list tokens failed")
		writeError(w, http.StatusBadGateway, "token listing unavailable")
		return
	}
	writeJSON(w, analytics.ProgressBuckets(page.Tokens))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	hours := 24
	if h, err := strconv.Atoi(params.Get("hours")); err == nil && h > 0 {
		hours = h
	}
	page := 1
	if p, err := strconv.Atoi(params.Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage := maxPageSize
	if pp, err := strconv.Atoi(params.Get("perPage")); err == nil && pp > 0 {
		if pp > maxPageSize {
			pp = maxPageSize
		}
		perPage = pp
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)
	snaps, err := s.snapshots.GetByTimeRange(r.Context(), start, end)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot history failed")
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	win := analytics.Paginate(len(snaps), page, perPage)
	views := make([]snapshotView, 0, win.End-win.Start)
	for _, snap := range snaps[win.Start:win.End] {
		views = append(views, newSnapshotView(snap))
	}
	writeJSON(w, map[string]interface{}{
		"snapshots":  views,
		"page":       win.Page,
		"totalPages": win.TotalPages,
		"total":      len(snaps),
	})
}

// handleRankings serves the top tokens by comment or vote count.
func (s *Server) handleRankings(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRankLen
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
			limit = l
		}

		page, err := s.lister.ListTokens(r.Context(), liquidlaunch.DefaultQuery())
		if err != nil {
			s.log.Error().Err(err).Msg("list tokens failed")
			writeError(w, http.StatusBadGateway, "token listing unavailable")
			return
		}

		aggs, err := s.engagement(w, r, page.Tokens)
		if err != nil {
			return
		}

		var ranked []analytics.RankedToken
		if kind == "votes" {
			ranked = analytics.RankByVotes(page.Tokens, aggs, limit)
		} else {
			ranked = analytics.RankByComments(page.Tokens, aggs, limit)
		}

		views := make([]tokenView, 0, len(ranked))
		for _, rt := range ranked {
			views = append(views, newTokenView(rt.Token, aggs[rt.Token.Address]))
		}
		writeJSON(w, views)
	}
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	comments, err := s.engage.Comments(r.Context(), address)
	if err != nil {
		s.log.Error().Err(err).Str("token", address).Msg("list comments failed")
		writeError(w, http.StatusInternalServerError, "comments unavailable")
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c))
	}
	writeJSON(w, views)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	comment, err := s.engage.AddComment(r.Context(), address, req.Body)
	switch {
	case errors.Is(err, engagement.ErrNoWallet):
		writeError(w, http.StatusUnauthorized, "connect a wallet to comment")
		return
	case errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "comment body required")
		return
	case err != nil:
		s.log.Error().Err(err).Str("token", address).Msg("add comment failed")
		writeError(w, http.StatusInternalServerError, "comment not saved")
		return
	}

	writeJSON(w, newCommentView(comment))
}

func (s *Server) handleToggleVote(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	agg, err := s.engage.ToggleVote(r.Context(), address)
	switch {
	case errors.Is(err, engagement.ErrNoWallet):
		writeError(w, http.StatusUnauthorized, "connect a wallet to vote")
		return
	case err != nil:
		s.log.Error().Err(err).Str("token", address).Msg("vote toggle failed")
		writeError(w, http.StatusInternalServerError, "vote not saved")
		return
	}

	writeJSON(w, map[string]interface{}{
		"voteCount":    agg.VoteCount,
		"userHasVoted": agg.UserHasVoted,
	})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	address := s.session.Address()
	writeJSON(w, map[string]interface{}{
		"connected":    address != "",
		"address":      address,
		"addressShort": shortOrEmpty(address),
	})
}

func (s *Server) handleWalletConnect(w http.ResponseWriter, r *http.Request) {
	if s.connector == nil {
		writeError(w, http.StatusServiceUnavailable, "no wallet provider configured")
		return
	}

	address, err := s.connector.Connect(r.Context())
	if err != nil {
		var rpcErr *wallet.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == 4001 {
			writeError(w, http.StatusForbidden, "connection rejected")
			return
		}
		s.log.Error().Err(err).Msg("wallet connect failed")
		writeError(w, http.StatusBadGateway, "wallet provider unavailable")
		return
	}

	writeJSON(w, map[string]interface{}{
		"connected":    true,
		"address":      address,
		"addressShort": shortOrEmpty(address),
	})
}

func (s *Server) handleWalletDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.connector != nil {
		s.connector.Disconnect()
	} else {
		s.session.Disconnect()
	}
	writeJSON(w, map[string]interface{}{"connected": false})
}
