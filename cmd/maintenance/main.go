// Command maintenance ejecuta tareas administrativas sobre la base de datos.
//
//	maintenance migrate
//	maintenance seed-manager -username admin -email admin@example.com -password secreto
//	maintenance count-missing-category
//	maintenance backfill-category
//	maintenance rehash-passwords
//	maintenance import-items -file items.csv -encoding latin1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/maintenance"
	"github.com/dehaep/Project-SupzG/internal/application/usecase"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/infrastructure/postgres"
	"github.com/dehaep/Project-SupzG/pkg/config"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

const usage = `uso: maintenance <comando> [flags]

comandos:
  migrate                  aplica las migraciones pendientes
  seed-manager             crea una cuenta manager (-username -email -password)
  count-missing-category   cuenta items sin categoría válida
  backfill-category        asigna la primera categoría a los items sin categoría
  rehash-passwords         hashea con bcrypt las contraseñas guardadas en texto plano
  import-items             importa items desde CSV (-file -encoding utf-8|latin1|windows1252)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("tarea fallida")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var (
		username = fs.String("username", "", "username del manager")
		email    = fs.String("email", "", "email del manager")
		password = fs.String("password", "", "contraseña del manager")
		file     = fs.String("file", "", "ruta del CSV de items")
		enc      = fs.String("encoding", "utf-8", "encoding del CSV: utf-8, latin1, windows1252")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	svc := maintenance.NewService(
		userRepo,
		postgres.NewItemRepository(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewLocationRepository(pool),
		log.Named("maintenance"),
	)

	switch cmd {
	case "migrate":
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")

	case "seed-manager":
		out, err := usecase.NewUserUseCase(userRepo).Create(ctx, dto.CreateUserRequest{
			Username: *username,
			Email:    *email,
			Password: *password,
			Role:     entity.RoleManager,
			Status:   entity.UserStatusActive,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			log.Warn().Str("username", *username).Msg("el usuario ya existe, no se modifica")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("id", out.ID).Str("username", out.Username).Msg("manager creado")

	case "count-missing-category":
		n, err := svc.CountMissingCategory(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)

	case "backfill-category":
		cat, n, err := svc.BackfillCategory(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d items asignados a %q\n", n, cat.Name)

	case "rehash-passwords":
		n, err := svc.RehashPasswords(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d contraseñas rehasheadas\n", n)

	case "import-items":
		if *file == "" {
			return fmt.Errorf("%w: -file es requerido", domain.ErrInvalidInput)
		}
		return importItems(ctx, svc, *file, *enc)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
	return nil
}

func importItems(ctx context.Context, svc *maintenance.Service, path, enc string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, rowErrs, err := maintenance.ReadItemsCSV(f, enc)
	if err != nil {
		return err
	}
	report, err := svc.ImportItems(ctx, rows)
	if err != nil {
		return err
	}
	for _, re := range append(rowErrs, report.Errors...) {
		fmt.Fprintln(os.Stderr, re.Error())
	}
	fmt.Printf("%d items creados, %d categorías y %d ubicaciones nuevas, %d filas con error\n",
		report.Created, report.CategoriesCreated, report.LocationsCreated, len(rowErrs)+len(report.Errors))
	return nil
}
