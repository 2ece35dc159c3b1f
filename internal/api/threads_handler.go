package api

import (
	"log"
	"net/http"

	"github.com/vdavid/chatseed/internal/models"
)

// ThreadsHandler handles thread-list-related API requests.
type ThreadsHandler struct {
	reader Reader
}

// NewThreadsHandler creates a new ThreadsHandler instance.
func NewThreadsHandler(reader Reader) *ThreadsHandler {
	return &ThreadsHandler{reader: reader}
}

// BuildPaginationResponse builds the pagination response structure.
func BuildPaginationResponse(threads []*models.Thread, totalCount, page, limit int) *models.ThreadsResponse {
	if threads == nil {
		threads = []*models.Thread{}
	}
	return &models.ThreadsResponse{
		Threads: threads,
		Pagination: models.PaginationInfo{
			TotalCount: totalCount,
			Page:       page,
			PerPage:    limit,
		},
	}
}

// GetThreads returns a paginated list of threads, most recently active first.
func (h *ThreadsHandler) GetThreads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit := ParsePaginationParams(r, defaultPageSize)
	offset := (page - 1) * limit

	threads, err := h.reader.GetThreads(ctx, limit, offset)
	if err != nil {
		log.Printf("ThreadsHandler: Failed to get threads: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	totalCount, err := h.reader.CountThreads(ctx)
	if err != nil {
		log.Printf("ThreadsHandler: Failed to get thread count: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, BuildPaginationResponse(threads, totalCount, page, limit))
}
