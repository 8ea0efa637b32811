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


// Package ai provides abstractions for the embedding services used in recall.
//
// The search core depends on the Embedder and Provider interfaces rather
// than concrete implementations, so scoring logic can be tested without an
// external service and providers can be swapped freely.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with behavior injection
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and assert call counts.
//
// Provider failures are recoverable by design: the search layer treats any
// error from an Embedder as a signal to degrade to lexical-only scoring,
// never as a reason to fail the whole search.
package ai
