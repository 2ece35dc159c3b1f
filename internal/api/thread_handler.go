package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/vdavid/chatseed/internal/models"
)

type ThreadHandler struct {
	reader Reader
}

func NewThreadHandler(reader Reader) *ThreadHandler {
	return &ThreadHandler{reader: reader}
}

// GetThread returns one thread with its messages and their attachments.
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Path should be /api/v1/thread/{thread_id}
	pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/thread/"), "/")
	if len(pathParts) == 0 || pathParts[0] == "" {
		http.Error(w, "thread_id is required", http.StatusBadRequest)
		return
	}

	thread, err := h.reader.GetThreadByID(ctx, pathParts[0])
	if err != nil {
		if errors.Is(err, models.ErrThreadNotFound) {
			http.Error(w, "Thread not found", http.StatusNotFound)
			return
		}
		log.Printf("ThreadHandler: Failed to get thread: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	messages, err := h.reader.GetMessagesForThread(ctx, thread.ID)
	if err != nil {
		log.Printf("ThreadHandler: Failed to get messages: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	thread.Messages = make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		attachments, err := h.reader.GetAttachmentsForMessage(ctx, msg.ID)
		if err != nil {
			log.Printf("ThreadHandler: Failed to get attachments for message %s: %v", msg.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		msg.Attachments = msg.Attachments[:0]
		for _, attachment := range attachments {
			msg.Attachments = append(msg.Attachments, *attachment)
		}
		thread.Messages = append(thread.Messages, *msg)
	}

	WriteJSONResponse(w, thread)
}
