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


// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The adapter is a strict parsing boundary: responses that are empty,
// inconsistent in dimension, or contain non-finite values are rejected with
// ai.ErrProviderUnavailable and never reach scoring logic.
package openai
