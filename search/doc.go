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

// Package search finds stored paintings similar to a free-text query.
//
// The query is embedded with the same model used at load time and compared
// against the stored vectors by cosine similarity. Hits whose title, artist
// or museum contain every significant query word get a verbatim boost, so
// "starry night van gogh" ranks the painting itself above look-alikes.
package search
