package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/embedding"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
)

// QueryHandler serves POST /api/v1/libraries/{id}/query (spec.md §6.1).
type QueryHandler struct {
	libraries *services.LibraryService
	query     *services.QueryService
	embedder  embedding.Provider
}

// NewQueryHandler creates a QueryHandler. embedder serves query_text
// requests when use_embedding_service is set.
func NewQueryHandler(libraries *services.LibraryService, query *services.QueryService, embedder embedding.Provider) *QueryHandler {
	return &QueryHandler{libraries: libraries, query: query, embedder: embedder}
}

// QueryFilterRequest mirrors models.ChunkFilter for JSON requests, with
// timestamps as ISO-8601 strings per spec.md §4.8.
type QueryFilterRequest struct {
	TextContains  string   `json:"text_contains,omitempty"`
	CreatedAtFrom string   `json:"created_at_from,omitempty"`
	CreatedAtTo   string   `json:"created_at_to,omitempty"`
	TagsAny       []string `json:"tags_any,omitempty"`
	TagsAll       []string `json:"tags_all,omitempty"`
	AuthorIn      []string `json:"author_in,omitempty"`
}

func (r *QueryFilterRequest) toModel() *models.ChunkFilter {
	if r == nil {
		return nil
	}
	f := &models.ChunkFilter{
		TextContains: r.TextContains,
		TagsAny:      r.TagsAny,
		TagsAll:      r.TagsAll,
		AuthorIn:     r.AuthorIn,
	}
	if r.CreatedAtFrom != "" {
		if t, err := models.ParseFilterTimestamp(r.CreatedAtFrom); err == nil {
			f.CreatedAtFrom = &t
		}
	}
	if r.CreatedAtTo != "" {
		if t, err := models.ParseFilterTimestamp(r.CreatedAtTo); err == nil {
			f.CreatedAtTo = &t
		}
	}
	return f
}

// QueryRequest is the request body for a kNN query.
type QueryRequest struct {
	QueryEmbedding     []float64           `json:"query_embedding,omitempty"`
	QueryText          string              `json:"query_text,omitempty"`
	UseEmbeddingService bool               `json:"use_embedding_service,omitempty"`
	K                  int                 `json:"k"`
	Filter             *QueryFilterRequest `json:"filter,omitempty"`
}

// QueryResultResponse is one ranked hit.
type QueryResultResponse struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Query handles POST /api/v1/libraries/{id}/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]
	var req QueryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	queryVec := req.QueryEmbedding
	if len(queryVec) == 0 && req.QueryText != "" && req.UseEmbeddingService {
		lib, err := h.libraries.Get(libraryID)
		if err != nil {
			WriteError(w, err)
			return
		}
		queryVec, err = h.embedder.Embed(r.Context(), req.QueryText, lib.EmbeddingDimension)
		if err != nil {
			RespondError(w, http.StatusInternalServerError, "embedding failed: "+err.Error())
			return
		}
	}
	if len(queryVec) == 0 {
		RespondError(w, http.StatusBadRequest, "query_embedding or query_text+use_embedding_service is required")
		return
	}

	results, err := h.query.KNN(libraryID, queryVec, req.K, req.Filter.toModel())
	if err != nil {
		WriteError(w, err)
		return
	}
	out := make([]QueryResultResponse, len(results))
	for i, r := range results {
		out[i] = QueryResultResponse{
			ChunkID:    r.Chunk.ID,
			DocumentID: r.Chunk.DocumentID,
			Score:      r.Score,
			Text:       r.Chunk.Text,
		}
	}
	RespondJSON(w, http.StatusOK, out)
}
