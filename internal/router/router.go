package router

import (
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/config"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/handler"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/middleware"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	meseraRepo := repository.NewMeseraRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ventana := time.Duration(cfg.VentanaOcupacionHoras) * time.Hour
	ledger := service.NewStockLedger(productoRepo)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, ledger, dispatcher)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, mesaRepo, ledger, dispatcher, ventana)
	mesaSvc := service.NewMesaService(mesaRepo, pedidoRepo, ventana)
	meseraSvc := service.NewMeseraService(meseraRepo)
	reporteSvc := service.NewReporteService(reporteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	movimientosH := handler.NewMovimientosHandler(inventarioSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)
	meserasH := handler.NewMeserasHandler(meseraSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Mesera PIN check — used by the floor tablets before any JWT exists
	r.POST("/v1/meseras/verificar", middleware.LoginRateLimiter(), meserasH.VerificarCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: admin, bartender — declared per-endpoint

		// Productos — bartender can read, admin writes
		v1.GET("/productos", middleware.RequireRole("admin", "bartender"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("admin", "bartender"), productosH.ObtenerPorID)
		prods := v1.Group("/productos", middleware.RequireRole("admin"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		// Categorías
		v1.GET("/categorias", middleware.RequireRole("admin", "bartender"), productosH.ListarCategorias)
		categorias := v1.Group("/categorias", middleware.RequireRole("admin"))
		{
			categorias.POST("", productosH.CrearCategoria)
			categorias.DELETE("/:id", productosH.EliminarCategoria)
		}

		// Inventario — movimientos are append-only
		inv := v1.Group("/inventario", middleware.RequireRole("admin", "bartender"))
		{
			inv.POST("/movimientos", movimientosH.Crear)
			inv.GET("/movimientos", movimientosH.Listar)
			inv.GET("/alertas", movimientosH.Alertas)
		}

		// Pedidos — the order lifecycle
		pedidos := v1.Group("/pedidos", middleware.RequireRole("admin", "bartender"))
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.ObtenerPorID)
			pedidos.POST("/:id/despachar", pedidosH.DespacharLinea)
			pedidos.PATCH("/:id/estado", pedidosH.ActualizarEstado)
		}
		v1.POST("/mesas/:id/pedido/agregar", middleware.RequireRole("admin", "bartender"), pedidosH.AgregarAMesa)
		v1.DELETE("/pedidos", middleware.RequireRole("admin"), pedidosH.BorrarHistorial)

		// Mesas
		v1.GET("/mesas", middleware.RequireRole("admin", "bartender"), mesasH.Listar)
		v1.GET("/mesas/ocupacion", middleware.RequireRole("admin", "bartender"), mesasH.Ocupacion)
		mesas := v1.Group("/mesas", middleware.RequireRole("admin"))
		{
			mesas.POST("", mesasH.Crear)
			mesas.PUT("/:id", mesasH.Actualizar)
			mesas.DELETE("/:id", mesasH.Eliminar)
		}

		// Meseras — admin only
		meseras := v1.Group("/meseras", middleware.RequireRole("admin"))
		{
			meseras.POST("", meserasH.Crear)
			meseras.GET("", meserasH.Listar)
			meseras.DELETE("/:id", meserasH.Eliminar)
			meseras.PATCH("/:id/codigo", meserasH.CambiarCodigo)
		}

		// Usuarios — admin only
		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PATCH("/:id/password", authH.CambiarPassword)
		}

		// Reportes
		reportes := v1.Group("/reportes", middleware.RequireRole("admin"))
		{
			reportes.GET("/actores", reportesH.TotalesPorActor)
			reportes.GET("/ventas-diarias", reportesH.VentasDiarias)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
