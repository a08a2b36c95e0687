package poolserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingrea/league-pool/internal/coverage"
	"github.com/kingrea/league-pool/internal/dataset"
	"github.com/kingrea/league-pool/internal/poolquery"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Roles         int    `json:"roles"`
}

type championListResponse struct {
	ChampionList []string `json:"champion_list"`
}

type championPoolResponse struct {
	ChampionPools []string `json:"champion_pools"`
}

var errNoMatchingRole = errors.New("no role contains every named champion")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	roles, _ := s.store.RoleNames()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		UptimeSeconds: s.uptimeSeconds(),
		Roles:         len(roles),
	})
}

func (s *Server) handleChampionList(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role is required"})
		return
	}
	rd, err := s.store.Role(role)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, championListResponse{ChampionList: rd.Champions})
}

func (s *Server) handleChampionPool(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	query := r.URL.Query()
	params := poolquery.Parse(query)
	current := params.CurrentList()
	excluded := params.ExcludeList()

	rd, role, err := s.resolveRole(strings.TrimSpace(query.Get("role")), current, excluded)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	pools := coverage.Recommend(rd, current, excluded, coverage.Options{
		MaxPoolSize:    s.settings.MaxPoolSize,
		MaxSuggestions: s.settings.MaxSuggestions,
	})
	s.metrics.pools.Observe(float64(len(pools)))
	s.logger.Printf("poolserver: %s pool for %s excluding %s -> %d suggestion(s)",
		role, params.Current, params.Exclude, len(pools))
	writeJSON(w, http.StatusOK, championPoolResponse{ChampionPools: pools})
}

// resolveRole picks the role a recommendation is computed for. The wire
// contract carries no role, so an explicit role parameter wins, then the
// default role when it holds every named champion, then the first role (by
// name) that does.
func (s *Server) resolveRole(explicit string, current, excluded []string) (dataset.RoleData, string, error) {
	if explicit != "" {
		rd, err := s.store.Role(explicit)
		return rd, explicit, err
	}
	named := append(append([]string{}, current...), excluded...)
	if s.settings.DefaultRole != "" {
		if rd, err := s.store.Role(s.settings.DefaultRole); err == nil && containsAll(rd, named) {
			return rd, s.settings.DefaultRole, nil
		}
	}
	names, err := s.store.RoleNames()
	if err != nil {
		return dataset.RoleData{}, "", err
	}
	for _, name := range names {
		rd, err := s.store.Role(name)
		if err != nil {
			continue
		}
		if containsAll(rd, named) {
			return rd, name, nil
		}
	}
	return dataset.RoleData{}, "", errNoMatchingRole
}

func containsAll(rd dataset.RoleData, names []string) bool {
	have := make(map[string]struct{}, len(rd.Champions))
	for _, c := range rd.Champions {
		have[c] = struct{}{}
	}
	for _, n := range names {
		if _, ok := have[n]; !ok {
			return false
		}
	}
	return true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrUnknownRole):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, errNoMatchingRole):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.logger.Printf("poolserver: store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "dataset unavailable"})
	}
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	// The picker may be served from another origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
