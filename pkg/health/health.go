// Package health gRPC健康检查封装
//
// Kubernetes等编排系统通过标准的grpc.health.v1协议探测服务状态:
// 服务启动后依赖(数据库、Redis)就绪才切换到SERVING,
// 优雅关闭开始时先切换到NOT_SERVING,让负载均衡器摘除流量。
package health

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Server 标准gRPC health service的封装
type Server struct {
	srv *health.Server
}

// New 创建健康检查服务
// 初始状态为NOT_SERVING:依赖检查通过之前服务不算就绪
func New() *Server {
	srv := health.NewServer()
	srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &Server{srv: srv}
}

// Register 注册到gRPC服务器,必须在Serve之前调用
func (s *Server) Register(grpcSrv *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(grpcSrv, s.srv)
}

// SetServing 标记服务就绪
func (s *Server) SetServing() {
	s.srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
}

// SetNotServing 标记服务不可用(优雅关闭时先摘除流量)
func (s *Server) SetNotServing() {
	s.srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}
