package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"myreplays/internal/domain"
	"myreplays/internal/httpjson"
)

type DownloadDTO struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	FilePath  string    `json:"filePath,omitempty"`
	ListURL   string    `json:"listUrl,omitempty"`
	Bytes     int64     `json:"bytes"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDownloadDTO(d domain.Download) DownloadDTO {
	return DownloadDTO{
		ID:        d.ID,
		URL:       d.URL,
		FilePath:  d.FilePath,
		ListURL:   d.ListURL,
		Bytes:     d.Bytes,
		Status:    string(d.Status),
		Error:     d.Error,
		CreatedAt: d.CreatedAt,
	}
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		httpjson.WriteError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	downloads, err := s.history.List(r.Context(), limit)
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]DownloadDTO, 0, len(downloads))
	for _, d := range downloads {
		out = append(out, toDownloadDTO(d))
	}
	httpjson.Write(w, http.StatusOK, out)
}
