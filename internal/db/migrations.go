package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Reference tables (trucks, drivers, barangays, zones, terminals, users)
// belong to other platform services and are expected to exist already.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		truck_id UUID NOT NULL REFERENCES trucks(id),
		driver_id UUID NOT NULL REFERENCES drivers(id),
		barangay_id UUID NOT NULL REFERENCES barangays(id),
		pickup_at TIMESTAMPTZ NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		remarks TEXT,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_driver_id ON schedules (driver_id);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_status ON schedules (status);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_pickup_at ON schedules (pickup_at);`,
	// Authoritative double-booking guard; the service pre-check only
	// exists to give friendlier errors in the unraced case.
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_schedules_truck_pickup
		ON schedules (truck_id, pickup_at)
		WHERE status <> 'deleted';`,
	`CREATE TABLE IF NOT EXISTS reschedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		truck_id UUID NOT NULL REFERENCES trucks(id),
		driver_id UUID NOT NULL REFERENCES drivers(id),
		barangay_id UUID NOT NULL REFERENCES barangays(id),
		pickup_at TIMESTAMPTZ NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		remarks TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reschedules_driver_id ON reschedules (driver_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_reschedules_truck_pickup
		ON reschedules (truck_id, pickup_at)
		WHERE status <> 'deleted';`,
	`CREATE TABLE IF NOT EXISTS route_segments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		reschedule_id UUID REFERENCES reschedules(id) ON DELETE CASCADE,
		from_zone_id UUID REFERENCES zones(id),
		to_zone_id UUID REFERENCES zones(id),
		from_terminal_id UUID REFERENCES terminals(id),
		to_terminal_id UUID REFERENCES terminals(id),
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		planned_minutes INTEGER NOT NULL DEFAULT 0,
		speed_kph DOUBLE PRECISION NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		start_time TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		remarks TEXT,
		is_viewed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_route_segments_schedule_id ON route_segments (schedule_id);`,
	`CREATE INDEX IF NOT EXISTS idx_route_segments_reschedule_id ON route_segments (reschedule_id);`,
	`CREATE INDEX IF NOT EXISTS idx_route_segments_status ON route_segments (status);`,
	`CREATE TABLE IF NOT EXISTS waste_collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		route_detail_id UUID REFERENCES route_segments(id) ON DELETE CASCADE,
		reschedule_detail_id UUID REFERENCES route_segments(id) ON DELETE CASCADE,
		biodegradable_sacks INTEGER NOT NULL DEFAULT 0,
		non_biodegradable_sacks INTEGER NOT NULL DEFAULT 0,
		recyclable_sacks INTEGER NOT NULL DEFAULT 0,
		recorded_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_waste_single_parent CHECK (
			(route_detail_id IS NULL) <> (reschedule_detail_id IS NULL)
		)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_waste_collections_route_detail ON waste_collections (route_detail_id);`,
	`CREATE INDEX IF NOT EXISTS idx_waste_collections_resched_detail ON waste_collections (reschedule_detail_id);`,
	`CREATE TABLE IF NOT EXISTS route_summaries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		schedule_id UUID NOT NULL UNIQUE REFERENCES schedules(id) ON DELETE CASCADE,
		completed_count INTEGER NOT NULL DEFAULT 0,
		missed_count INTEGER NOT NULL DEFAULT 0,
		total_duration_seconds BIGINT NOT NULL DEFAULT 0,
		missed_reasons TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS segment_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		segment_id UUID NOT NULL REFERENCES route_segments(id) ON DELETE CASCADE,
		old_status VARCHAR(16),
		new_status VARCHAR(16) NOT NULL,
		note TEXT,
		changed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_segment_status_log_segment_id ON segment_status_log (segment_id);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_schedules_updated_at') THEN
			CREATE TRIGGER trg_schedules_updated_at
				BEFORE UPDATE ON schedules
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_reschedules_updated_at') THEN
			CREATE TRIGGER trg_reschedules_updated_at
				BEFORE UPDATE ON reschedules
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_route_segments_updated_at') THEN
			CREATE TRIGGER trg_route_segments_updated_at
				BEFORE UPDATE ON route_segments
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
