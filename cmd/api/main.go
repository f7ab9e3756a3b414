package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hakenworks/staffing-backend-go/internal/config"
	appHTTP "github.com/hakenworks/staffing-backend-go/internal/handler/http"
	"github.com/hakenworks/staffing-backend-go/internal/pkg/database"
	"github.com/hakenworks/staffing-backend-go/internal/repository/postgresql"
	advanceService "github.com/hakenworks/staffing-backend-go/internal/service/advance"
	payrollService "github.com/hakenworks/staffing-backend-go/internal/service/payroll"
	"github.com/lestrrat-go/jwx/v2/jwt"
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

	payrollRepo := postgresql.NewPayrollRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)

	payrollSvc := payrollService.NewPayrollService(payrollRepo, advanceRepo)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	advanceHandler := appHTTP.NewAdvanceHandler(advanceSvc)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil, jwt.WithAcceptableSkew(30*time.Second))

	router := appHTTP.NewRouter(
		tokenAuth,
		payrollHandler,
		advanceHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
