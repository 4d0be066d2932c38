package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/menu"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/objectstore"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/rogerio-castellano/kasir/internal/repo"
)

const (
	FieldURL   = "url"
	FieldSize  = "size"
	FieldDark  = "dark"
	FieldLight = "light"

	DownloadName = "qr-code-menu.png"
	MenuPDFName  = "menu.pdf"
)

var (
	// ErrMenuEmpty is returned when a menu QR is requested with no products.
	ErrMenuEmpty = errors.New("no products to show in the menu")
	// ErrQRGenerate wraps rendering failures; the cause is for logs only.
	ErrQRGenerate = errors.New("failed to generate QR code")
)

// Archiver stores generated artifacts and returns a download URL.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type QRDefaults struct {
	URL    string `json:"url"`
	Size   int    `json:"size"`
	Margin int    `json:"margin"`
	Dark   string `json:"dark"`
	Light  string `json:"light"`
}

// QRResult is a rendered code. Payload is the encoded text; ArchiveURL is set
// when the image was archived.
type QRResult struct {
	PNG        []byte
	Payload    string
	ArchiveURL string
}

type QRService struct {
	products repo.ProductRepository
	settings menu.Settings
	menuURL  string
	opts     qrcode.Options
	archiver Archiver
	log      *logger.Logger
	now      func() time.Time
}

// NewQRService builds the service. archiver may be nil.
func NewQRService(products repo.ProductRepository, settings menu.Settings, menuURL string, opts qrcode.Options, archiver Archiver, log *logger.Logger) *QRService {
	return &QRService{
		products: products,
		settings: settings,
		menuURL:  menuURL,
		opts:     opts,
		archiver: archiver,
		log:      log,
		now:      time.Now,
	}
}

func (s *QRService) Defaults() QRDefaults {
	return QRDefaults{
		URL:    s.menuURL,
		Size:   s.opts.Size,
		Margin: s.opts.Margin,
		Dark:   s.opts.Dark,
		Light:  s.opts.Light,
	}
}

// merge overlays request options on the configured ones.
func (s *QRService) merge(o qrcode.Options) qrcode.Options {
	out := s.opts
	if o.Size > 0 {
		out.Size = o.Size
	}
	if o.Margin != 0 {
		out.Margin = o.Margin
	}
	if o.Dark != "" {
		out.Dark = o.Dark
	}
	if o.Light != "" {
		out.Light = o.Light
	}
	return out
}

// checkOptions validates client supplied rendering options. Zero values are
// left for merge to fill in.
func checkOptions(o qrcode.Options, verr *ValidationError) {
	if o.Size < 0 || o.Size > qrcode.MaxSize {
		verr.add(FieldSize, i18n.QRSizeInvalid, qrcode.MaxSize)
	}
	if o.Dark != "" {
		if _, err := qrcode.ParseColor(o.Dark); err != nil {
			verr.add(FieldDark, i18n.QRColorInvalid)
		}
	}
	if o.Light != "" {
		if _, err := qrcode.ParseColor(o.Light); err != nil {
			verr.add(FieldLight, i18n.QRColorInvalid)
		}
	}
}

// URL encodes a link. A blank url is a validation error on the url field.
func (s *QRService) URL(ctx context.Context, rawURL string, o qrcode.Options, archive bool) (QRResult, error) {
	var verr ValidationError
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		verr.add(FieldURL, i18n.URLRequired)
	}
	checkOptions(o, &verr)
	if err := verr.orNil(); err != nil {
		return QRResult{}, err
	}
	return s.render(ctx, rawURL, o, archive)
}

// Menu encodes the current menu snapshot as indented JSON.
func (s *QRService) Menu(ctx context.Context, o qrcode.Options, archive bool) (QRResult, error) {
	var verr ValidationError
	checkOptions(o, &verr)
	if err := verr.orNil(); err != nil {
		return QRResult{}, err
	}

	m, err := s.Snapshot(ctx)
	if err != nil {
		return QRResult{}, err
	}
	if len(m.Items) == 0 {
		return QRResult{}, ErrMenuEmpty
	}

	payload, err := menu.Marshal(m)
	if err != nil {
		return QRResult{}, fmt.Errorf("%w: %v", ErrQRGenerate, err)
	}
	return s.render(ctx, string(payload), o, archive)
}

func (s *QRService) render(ctx context.Context, payload string, o qrcode.Options, archive bool) (QRResult, error) {
	png, err := qrcode.Encode(payload, s.merge(o))
	if errors.Is(err, qrcode.ErrTooSmall) {
		verr := &ValidationError{}
		verr.add(FieldSize, i18n.QRSizeTooSmall)
		return QRResult{}, verr
	}
	if err != nil {
		return QRResult{}, fmt.Errorf("%w: %w", ErrQRGenerate, err)
	}

	res := QRResult{PNG: png, Payload: payload}
	if archive {
		res.ArchiveURL = s.archive(ctx, "qr", DownloadName, png, "image/png")
	}
	return res, nil
}

// Snapshot builds the public menu from the current catalogue.
func (s *QRService) Snapshot(ctx context.Context) (models.Menu, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return models.Menu{}, err
	}
	return menu.Build(products, s.settings, s.now()), nil
}

// MenuPDF renders the printable menu sheet with a QR code to the public menu.
func (s *QRService) MenuPDF(ctx context.Context, archive bool) ([]byte, string, error) {
	m, err := s.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(m.Items) == 0 {
		return nil, "", ErrMenuEmpty
	}

	pdf, err := menu.PDF(ctx, m, s.menuURL)
	if err != nil {
		return nil, "", err
	}

	var archiveURL string
	if archive {
		archiveURL = s.archive(ctx, "menu", MenuPDFName, pdf, "application/pdf")
	}
	return pdf, archiveURL, nil
}

// archive is best effort: failures are logged and yield an empty URL.
func (s *QRService) archive(ctx context.Context, kind, name string, data []byte, contentType string) string {
	if s.archiver == nil {
		return ""
	}
	key := objectstore.Key(kind, uuid.NewString(), name, s.now())
	u, err := s.archiver.Archive(ctx, key, data, contentType)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to archive artifact")
		return ""
	}
	return u
}
