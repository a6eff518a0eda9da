package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Authorization Metrics

	// AuthRejectionsTotal 鉴权拒绝次数
	AuthRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of requests rejected by the authorization middleware",
		},
		[]string{"reason"},
	)

	// LoginsTotal 登录次数
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // success, failed
	)

	// PermissionResolveDuration 权限集合计算耗时
	PermissionResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "permission_resolve_duration_seconds",
			Help:    "Time spent resolving a user's permission set",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// PermissionSetSize 签发令牌时的权限数量
	PermissionSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "permission_set_size",
			Help:    "Number of API paths embedded in issued tokens",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// Department Tree Metrics

	// DeptCascadeUpdates 部门级联更新的节点数
	DeptCascadeUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dept_cascade_updates_total",
			Help: "Total number of department rows rewritten by cascades",
		},
		[]string{"operation"}, // move, enable
	)

	// StructureLockWait 等待结构写锁的时间
	StructureLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "structure_lock_wait_seconds",
			Help:    "Time spent waiting for the department structure lock",
			Buckets: prometheus.DefBuckets,
		},
	)
)
