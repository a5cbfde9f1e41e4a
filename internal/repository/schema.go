package repository

// SchemaStatements are idempotent DDL statements applied at startup.
var SchemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS sentipulse`,
	`CREATE TABLE IF NOT EXISTS sentipulse.indicator_readings (
        type         LowCardinality(String),
        raw_value    Float64,
        normalized   Float64,
        source       LowCardinality(String),
        trading_date String,
        captured_at  DateTime64(3, 'UTC'),
        valid        UInt8,
        error        String
    ) ENGINE = MergeTree()
      PARTITION BY toYYYYMM(captured_at)
      ORDER BY (type, captured_at)
      TTL toDateTime(captured_at) + INTERVAL 90 DAY`,
	`CREATE TABLE IF NOT EXISTS sentipulse.sentiment_history (
        trading_date String,
        score        Int32,
        status       LowCardinality(String),
        indicators   String,
        details      String,
        created_at   DateTime64(3, 'UTC')
    ) ENGINE = MergeTree()
      PARTITION BY toYYYYMM(created_at)
      ORDER BY (created_at)`,
}
