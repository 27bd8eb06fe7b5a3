package memory

import "github.com/aviral1303/vectordb/models"

// Store bundles the three repositories behind the single Snapshot/
// ReplaceAll pair that persistence and replication need (spec.md §6.3,
// §6.4), avoiding three separate collaborator interfaces at those
// boundaries.
type Store struct {
	Libraries *LibraryRepository
	Documents *DocumentRepository
	Chunks    *ChunkRepository
}

// NewStore creates an empty Store with fresh repositories.
func NewStore() *Store {
	return &Store{
		Libraries: NewLibraryRepository(),
		Documents: NewDocumentRepository(),
		Chunks:    NewChunkRepository(),
	}
}

// Snapshot returns a full export of all three repositories.
func (s *Store) Snapshot() *models.Snapshot {
	return &models.Snapshot{
		Libraries: s.Libraries.List(),
		Documents: listAllDocuments(s.Documents),
		Chunks:    listAllChunks(s.Chunks),
	}
}

// ReplaceAll wholesale-replaces all three repositories' contents from snap,
// used by persistence load and by the replication follower (spec.md §6.4).
func (s *Store) ReplaceAll(snap *models.Snapshot) {
	s.Libraries.ReplaceAll(snap.Libraries)
	s.Documents.ReplaceAll(snap.Documents)
	s.Chunks.ReplaceAll(snap.Chunks)
}

func listAllDocuments(r *DocumentRepository) []*models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Document, 0, len(r.byID))
	for _, doc := range r.byID {
		copied := *doc
		out = append(out, &copied)
	}
	return out
}

func listAllChunks(r *ChunkRepository) []*models.Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Chunk, 0, len(r.byID))
	for _, c := range r.byID {
		copied := *c
		out = append(out, &copied)
	}
	return out
}
