// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package neuroq

import (
	"context"
	"log/slog"

	"github.com/poiesic/neuroq/dissoc"
	"github.com/poiesic/neuroq/ingestion"
	"github.com/poiesic/neuroq/server"
	"github.com/poiesic/neuroq/storage"
	"github.com/poiesic/neuroq/storage/badger"
	"github.com/poiesic/neuroq/storage/postgres"
)

// Database bundles an open corpus with its backend lifetime.
type Database struct {
	backend *badger.Backend
	corpus  storage.Corpus
	writer  storage.CorpusWriter
	logger  *slog.Logger
}

// Open opens an embedded corpus at filePath, creating it when absent.
// Embedded corpora are read-write; Writer() accepts snapshot loads.
func Open(filePath string) (*Database, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	writer, err := badger.NewWriter(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend: backend,
		corpus:  badger.NewCorpus(backend),
		writer:  writer,
		logger:  slog.Default(),
	}, nil
}

// OpenPostgres connects to a server-backed corpus. The connection is
// verified before returning. Server corpora are read-only.
func OpenPostgres(ctx context.Context, url string, opts ...postgres.Option) (*Database, error) {
	corpus, err := postgres.NewCorpus(ctx, url, opts...)
	if err != nil {
		return nil, err
	}

	return &Database{
		corpus: corpus,
		logger: slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if db.writer != nil {
		if err := db.writer.Close(); err != nil {
			db.logger.Error("error closing corpus writer", "err", err)
		}
	}

	if err := db.corpus.Close(); err != nil {
		db.logger.Error("error closing corpus", "err", err)
		return err
	}

	if db.backend != nil {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

func (db *Database) Corpus() storage.Corpus {
	return db.corpus
}

// Writer returns the snapshot writer, or nil for read-only corpora.
func (db *Database) Writer() storage.CorpusWriter {
	return db.writer
}

func (db *Database) NewDissociator(opts ...dissoc.Option) (*dissoc.Dissociator, error) {
	return dissoc.NewDissociator(db.corpus, opts...)
}

// NewIngestionPipeline builds a snapshot loader. It fails on read-only
// corpora, which carry no writer.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.writer, opts...)
}

func (db *Database) NewServer(config *server.Config, opts ...server.Option) (*server.Server, error) {
	return server.NewServer(db.corpus, config, opts...)
}
