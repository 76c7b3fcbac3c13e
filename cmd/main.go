package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	calendarv1 "github.com/Leganyst/telemed-scheduling/internal/api/calendar/v1"
	"github.com/Leganyst/telemed-scheduling/internal/booking"
	"github.com/Leganyst/telemed-scheduling/internal/config"
	"github.com/Leganyst/telemed-scheduling/internal/db"
	"github.com/Leganyst/telemed-scheduling/internal/events"
	"github.com/Leganyst/telemed-scheduling/internal/locker"
	"github.com/Leganyst/telemed-scheduling/internal/logger"
	"github.com/Leganyst/telemed-scheduling/internal/metrics"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/repository"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
	"github.com/Leganyst/telemed-scheduling/internal/service"
)

func main() {
	// 1. Конфиг из env (и .env локально).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogLevel, cfg.IsLocal())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 2. БД и миграции.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		zlog.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		zlog.Fatal("auto migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		zlog.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 3. Блокировка на врача: redis, если реплик несколько, иначе в памяти процесса.
	var slotLocker schedule.Locker = locker.NewKeyedMutex()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zlog.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		slotLocker = locker.NewRedisLocker(rdb, cfg.Redis.LockTTL, cfg.Redis.LockWait, zlog.Named("locker"))
		zlog.Info("using redis slot locker", zap.String("addr", cfg.Redis.Addr))
	}

	// 4. Публикация событий о записях.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := amqp091.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			zlog.Fatal("connect rabbitmq", zap.Error(err))
		}
		defer conn.Close()
		rp, err := events.NewRabbitPublisher(conn, cfg.RabbitMQ.Queue, zlog.Named("events"))
		if err != nil {
			zlog.Fatal("init rabbitmq publisher", zap.Error(err))
		}
		defer rp.Close()
		publisher = rp
		zlog.Info("publishing appointment events", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	// 5. Метрики.
	var bookingMetrics *metrics.BookingMetrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		bookingMetrics = metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zlog.Error("metrics server", zap.Error(err))
			}
		}()
	}

	// 6. Репозитории и сценарии.
	doctorRepo := repository.NewGormDoctorRepository(gormDB)
	appointmentRepo := repository.NewGormAppointmentRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	eval := schedule.NewEvaluator(cfg.ClinicLocation(), cfg.SlotGranularity())
	bookingSvc := booking.NewService(doctorRepo, appointmentRepo, eventRepo, eval,
		booking.WithLocker(slotLocker),
		booking.WithPublisher(publisher),
		booking.WithMetrics(bookingMetrics),
		booking.WithLogger(zlog.Named("booking")),
		booking.WithMeetingBaseURL(cfg.App.MeetingBaseURL),
	)

	// 7. gRPC-сервер.
	grpcServer := grpc.NewServer()
	calendarv1.RegisterCalendarServiceServer(grpcServer, service.NewCalendarService(bookingSvc, zlog.Named("grpc")))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		zlog.Fatal("listen", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	zlog.Info("scheduling gRPC server listening",
		zap.String("addr", cfg.GRPC.Addr),
		zap.String("clinic_timezone", cfg.App.ClinicTimezone),
	)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			zlog.Fatal("grpc serve", zap.Error(err))
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down")
	grpcServer.GracefulStop()
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
	}
}
