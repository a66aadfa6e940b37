package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
)

var startTime = time.Now()

// Metrics returns Prometheus-compatible text format metrics.
func Metrics(c *gin.Context) {
	var b strings.Builder

	// -- Runtime metrics --
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "hwtracker_uptime_seconds", "Time since server start in seconds", float64(time.Since(startTime).Seconds()))
	writeGauge(&b, "hwtracker_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "hwtracker_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "hwtracker_memory_sys_bytes", "Total memory obtained from OS in bytes", float64(m.Sys))
	writeGauge(&b, "hwtracker_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	// -- Database metrics --
	db := models.GetDB()
	dbUp := 0.0
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			dbUp = 1.0
			stats := sqlDB.Stats()
			writeGauge(&b, "hwtracker_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "hwtracker_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
			writeGauge(&b, "hwtracker_db_idle_connections", "Number of idle DB connections", float64(stats.Idle))
		}
	}
	writeGauge(&b, "hwtracker_db_up", "Whether the database is reachable (1=yes, 0=no)", dbUp)

	// -- Inventory metrics --
	if db != nil {
		var setCount, totalCapacity, unitsOut int64
		db.Model(&models.HardwareSet{}).Count(&setCount)
		db.Model(&models.HardwareSet{}).Select("COALESCE(SUM(capacity), 0)").Scan(&totalCapacity)
		db.Model(&models.ProjectUsage{}).Select("COALESCE(SUM(used), 0)").Scan(&unitsOut)

		writeGauge(&b, "hwtracker_hardware_sets_total", "Number of hardware sets in the catalog", float64(setCount))
		writeGauge(&b, "hwtracker_capacity_units_total", "Total capacity across all hardware sets", float64(totalCapacity))
		writeGauge(&b, "hwtracker_units_checked_out", "Units currently checked out across all projects", float64(unitsOut))

		var projectCount, userCount int64
		db.Model(&models.Project{}).Where("deleted_at IS NULL").Count(&projectCount)
		db.Model(&models.User{}).Where("deleted_at IS NULL AND is_active = ?", true).Count(&userCount)

		writeGauge(&b, "hwtracker_projects_total", "Total number of active projects", float64(projectCount))
		writeGauge(&b, "hwtracker_users_active", "Number of active users", float64(userCount))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
