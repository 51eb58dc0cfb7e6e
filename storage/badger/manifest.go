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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// Manifest retrieves the snapshot manifest.
// Returns storage.ErrNotFound if no snapshot has been loaded.
func (c *Corpus) Manifest(ctx context.Context) (*core.Manifest, error) {
	var manifest *core.Manifest
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(manifestKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			manifest, unmarshalErr = storage.UnmarshalManifest(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

// PutManifest persists the snapshot manifest, stamping IngestedAt when the
// caller left it unset.
func (w *Writer) PutManifest(ctx context.Context, manifest *core.Manifest) error {
	return w.backend.WithTx(func(tx *badger.Txn) error {
		if manifest.IngestedAt == 0 {
			manifest.IngestedAt = time.Now().UTC().Unix()
		}
		value := storage.MarshalManifest(manifest)
		if err := tx.Set([]byte(manifestKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
