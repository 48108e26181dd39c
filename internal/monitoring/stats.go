package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is the live resource picture shown on the console's
// status panel
type SystemStats struct {
	DatabaseStatus    string  `json:"database_status"`
	ActiveConnections int     `json:"active_connections"`
	IdleConnections   int     `json:"idle_connections"`
	ResponseTime      int64   `json:"response_time_ms"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskPercent       float64 `json:"disk_percent"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
	Uptime            string  `json:"uptime"`
}

type Collector struct {
	db      *pgxpool.Pool
	started time.Time
}

func NewCollector(db *pgxpool.Pool) *Collector {
	return &Collector{db: db, started: time.Now()}
}

// Collect gathers current system and database stats
func (c *Collector) Collect(ctx context.Context) SystemStats {
	dbStatus := "healthy"
	start := time.Now()
	if err := c.db.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}
	responseTime := time.Since(start).Milliseconds()

	poolStat := c.db.Stat()

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	stats := SystemStats{
		DatabaseStatus:    dbStatus,
		ActiveConnections: int(poolStat.AcquiredConns()),
		IdleConnections:   int(poolStat.IdleConns()),
		ResponseTime:      responseTime,
		CPUPercent:        cpuPercent,
		Uptime:            time.Since(c.started).Round(time.Second).String(),
	}

	if memStats, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}

	if diskStats, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}

	return stats
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
