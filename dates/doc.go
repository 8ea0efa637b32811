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


// Package dates resolves natural-language date expressions to calendar dates.
//
// Resolve turns free text into zero or more core.ResolvedDate values relative
// to an anchor "now". It recognizes immediate words ("today", "tonight"),
// relative keywords ("next week"), named weekdays, absolute forms (ISO,
// slash, month-name), relative offsets ("in 3 days"), and time-of-day
// suffixes ("for 8:35 p.m.").
//
// Resolution is pure and deterministic given the anchor. Malformed fragments
// are dropped silently; the resolver never fails on unparseable input.
package dates
