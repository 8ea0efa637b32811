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


// Package search implements hybrid lexical and semantic ranking over memory
// records.
//
// The entry point is Service.Search, which analyzes the raw query, embeds it
// through the configured provider, and hands off to HybridRanker. The ranker
// combines a weighted lexical score with cosine similarity, boosts records
// scheduled on dates the query names, and falls back to suggestions when
// nothing qualifies. A query that names a date but carries no other
// meaningful words takes a separate date-only path that ignores text
// matching entirely.
//
// Provider failures never fail a search; the call degrades to lexical-only
// scoring and reports that through the outcome's Method field.
package search
