// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package classify exposes sequence classification over HTTP.
//
// Model banks are authored as YAML files, compiled into hidden Markov
// models behind a Bayesian classifier, and registered by name. The API
// scores integer-encoded observation sequences against a bank, returns
// posterior distributions and decisions, and lets operators retune priors
// and rejection sensitivity at runtime. An optional directory watcher
// recompiles bank files when they change on disk.
package classify
