// Package services hosts the application-layer orchestration for SeasonPulse.
//
// PipelineService drives the per-instrument seasonality pipeline: load raw
// bars, aggregate into the five timeframes, link cross-timeframe references,
// persist the derived records and emit patterns. StatisticsService serves
// statistics snapshots through a cache read-through over the statistics
// engine. Services own no I/O details; they coordinate the core packages
// through the persistence ports.
package services
