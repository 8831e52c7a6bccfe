package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

const (
	payloadText     = "text"
	payloadPosition = "position"
)

// QdrantConfig addresses a Qdrant gRPC endpoint.
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// QdrantStore keeps one build in its own collection. The collection is
// created on the first Add and dropped on Close.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	created    bool
	count      int
	log        zerolog.Logger
}

// QdrantStoreFactory opens a connection per build with a unique
// collection name.
func QdrantStoreFactory(cfg QdrantConfig) StoreFactory {
	return func(ctx context.Context) (VectorStore, error) {
		client, err := qdrant.NewClient(&qdrant.Config{
			Host:   cfg.Host,
			Port:   cfg.Port,
			APIKey: cfg.APIKey,
			UseTLS: cfg.UseTLS,
		})
		if err != nil {
			return nil, fmt.Errorf("connect qdrant: %w", err)
		}
		return &QdrantStore{
			client:     client,
			collection: "catalog_" + uuid.NewString(),
			log:        logging.With("qdrant"),
		}, nil
	}
}

func (s *QdrantStore) ensureCollection(ctx context.Context, dim int) error {
	if s.created {
		return nil
	}
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	s.created = true
	s.log.Debug().Str("collection", s.collection).Int("dim", dim).Msg("created collection")
	return nil
}

func (s *QdrantStore) Add(ctx context.Context, docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return ErrEmptyEmbedding
	}
	if len(docs) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}
	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(s.count + i)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadText:     doc.Text,
				payloadPosition: int64(doc.Position),
			}),
		}
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", s.collection, err)
	}
	s.count += len(docs)
	return nil
}

func (s *QdrantStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 || s.count == 0 {
		return []Match{}, nil
	}
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collection, err)
	}
	matches := make([]Match, 0, len(points))
	for _, p := range points {
		m := Match{
			Document: Document{
				Text:     p.GetPayload()[payloadText].GetStringValue(),
				Position: int(p.GetPayload()[payloadPosition].GetIntegerValue()),
			},
			Score: p.GetScore(),
		}
		if v := p.GetVectors().GetVector(); v != nil {
			m.Vector = v.GetData()
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *QdrantStore) Len() int { return s.count }

func (s *QdrantStore) Close() error {
	defer s.client.Close()
	if !s.created {
		return nil
	}
	if err := s.client.DeleteCollection(context.Background(), s.collection); err != nil {
		s.log.Warn().Err(err).Str("collection", s.collection).Msg("failed to drop collection")
		return err
	}
	return nil
}
