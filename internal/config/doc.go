// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the builder configuration.
//
// Configuration comes from three layers, later layers winning: built-in
// defaults, an optional YAML config file, and environment variables. The
// environment surface keeps the historical variable names (PACKAGE_SOURCES,
// PARAM_STORE_NAME, INSTANCE_TYPE, KEY_NAME, INSTANCE_PROFILE_NAME) so
// existing deployments keep working; PACKAGE_SOURCES is a JSON array of
// "bucket:key" descriptors.
package config
