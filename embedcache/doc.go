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


// Package embedcache memoizes embedding computation in front of an
// ai.Embedder.
//
// Cache guarantees at-most-once computation per text: concurrent requests
// for the same text coalesce onto a single provider call and share its
// result. Failed computations are not cached, so a transient provider
// outage does not poison a key.
//
// Warmer batch-embeds a corpus of memory records on a bounded worker pool
// with exponential-backoff retry, filling in missing record embeddings
// ahead of search traffic.
package embedcache
