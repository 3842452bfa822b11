package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/mir-hr/attendance-backend-go/internal/handler/http"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/mir-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/mir-hr/attendance-backend-go/internal/service/attendance"
	calendarService "github.com/mir-hr/attendance-backend-go/internal/service/calendar"
	overtimeService "github.com/mir-hr/attendance-backend-go/internal/service/overtime"
	punchService "github.com/mir-hr/attendance-backend-go/internal/service/punch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	punchRepo := postgresql.NewPunchEventRepository(db)
	recordRepo := postgresql.NewAttendanceRecordRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignRepo := postgresql.NewShiftAssignmentRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	ruleRepo := postgresql.NewOvertimeRuleRepository(db)
	sysconfigRepo := postgresql.NewSysconfigRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration)

	calendarResolver := calendarService.NewResolver(holidayRepo, shiftRepo, assignRepo, sysconfigRepo)
	classifier := attendanceService.NewClassifier(employeeRepo, shiftRepo)
	selector := overtimeService.NewRuleSelector(ruleRepo)
	engine := overtimeService.NewEngine(recordRepo, employeeRepo, shiftRepo, ruleRepo, calendarResolver, selector, false)
	aggregator := overtimeService.NewAggregator(recordRepo, employeeRepo, engine, selector)
	reconciler := attendanceService.NewReconcilerService(db, punchRepo, recordRepo, employeeRepo, shiftRepo, calendarResolver, classifier, engine)
	ingestion := punchService.NewService(punchRepo, employeeRepo, deviceRepo)

	punchHandler := appHTTP.NewPunchHandler(ingestion)
	attendanceHandler := appHTTP.NewAttendanceHandler(reconciler)
	overtimeHandler := appHTTP.NewOvertimeHandler(engine, aggregator)

	router := appHTTP.NewRouter(
		JWTService,
		punchHandler,
		attendanceHandler,
		overtimeHandler,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scheduler *cron.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = cron.NewScheduler(ctx)
		jobs := cron.NewAttendanceJobs(reconciler, engine)
		jobs.RegisterJobs(scheduler, cfg.Scheduler.ProcessLogsInterval, cfg.Scheduler.OvertimeInterval)
		scheduler.Start()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			stop()
		}
	}()

	<-ctx.Done()

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
