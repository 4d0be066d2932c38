package i18n

// Message keys are the English texts; Indonesian translations live in the catalog.
const (
	ProductNameRequired   = "Product name is required"
	PriceRequired         = "Price is required"
	PricePositive         = "Price must be a positive number"
	PriceTooPrecise       = "Price can have at most 2 decimal places"
	PriceTooLarge         = "Price is too large"
	StockRequired         = "Stock is required"
	StockNonNegative      = "Stock must be a non-negative number"
	StockTooLarge         = "Stock cannot exceed %d"
	ThresholdNonNegative  = "Threshold must be a non-negative number"
	ThresholdTooLarge     = "Threshold cannot exceed %d"
	ProductNameTaken      = "A product with this name already exists"
	ProductSaveFailed     = "An error occurred while saving the product"
	ProductNotFound       = "Product not found"
	ProductMustBeSelected = "Product must be selected"
	ProductNotFoundSelect = "Selected product was not found"
	QuantityRequired      = "Quantity is required"
	QuantityPositive      = "Quantity must be a positive number"
	QuantityTooLarge      = "Quantity cannot exceed %d"
	TotalTooLarge         = "Transaction total is too large"
	InsufficientStock     = "Insufficient stock. Available stock: %d"
	StockChanged          = "Stock changed while saving. Please review the quantity and try again."
	TypeInvalid           = "Transaction type must be sale or purchase"
	StatusInvalid         = "Transaction status must be processing or pending_approval"
	TransactionSaveFailed = "An error occurred while saving the transaction"
	TransactionNotFound   = "Transaction not found"
	TransactionNotPending = "Only transactions pending approval can be approved"
	QRGenerateFailed      = "Failed to generate QR code. Please try again."
	URLRequired           = "URL must not be empty"
	QRSizeInvalid         = "Size must be between 1 and %d pixels"
	QRSizeTooSmall        = "Size is too small for this content"
	QRColorInvalid        = "Colour must be a hex code such as #000000"
	MenuEmpty             = "No products to show in the menu"
	InvalidInput          = "invalid input"
	Unauthorized          = "Unauthorized"
	Forbidden             = "Forbidden"
	TooManyRequests       = "Too many requests"
	InvalidCredentials    = "Invalid username or password"
	UsernameTaken         = "Username already exists"
	CredentialsRequired   = "Username and password are required"
	CredentialsTooShort   = "Username must be at least 3 characters and password at least 6"
	InternalError         = "An unexpected error occurred"
)

var indonesian = map[string]string{
	ProductNameRequired:   "Nama produk harus diisi",
	PriceRequired:         "Harga harus diisi",
	PricePositive:         "Harga harus berupa angka positif",
	PriceTooPrecise:       "Harga maksimal memiliki 2 angka desimal",
	PriceTooLarge:         "Harga terlalu besar",
	StockRequired:         "Stok harus diisi",
	StockNonNegative:      "Stok harus berupa angka non-negatif",
	StockTooLarge:         "Stok tidak boleh melebihi %d",
	ThresholdNonNegative:  "Batas stok minimum harus berupa angka non-negatif",
	ThresholdTooLarge:     "Batas stok minimum tidak boleh melebihi %d",
	ProductNameTaken:      "Produk dengan nama ini sudah ada",
	ProductSaveFailed:     "Terjadi kesalahan saat menyimpan produk",
	ProductNotFound:       "Produk tidak ditemukan",
	ProductMustBeSelected: "Produk harus dipilih",
	ProductNotFoundSelect: "Produk yang dipilih tidak ditemukan",
	QuantityRequired:      "Jumlah harus diisi",
	QuantityPositive:      "Jumlah harus berupa angka positif",
	QuantityTooLarge:      "Jumlah tidak boleh melebihi %d",
	TotalTooLarge:         "Total transaksi terlalu besar",
	InsufficientStock:     "Stok tidak mencukupi. Stok tersedia: %d",
	StockChanged:          "Stok berubah saat menyimpan. Periksa kembali jumlah dan coba lagi.",
	TypeInvalid:           "Tipe transaksi harus penjualan atau pembelian",
	StatusInvalid:         "Status transaksi harus diproses atau menunggu persetujuan",
	TransactionSaveFailed: "Terjadi kesalahan saat menyimpan transaksi",
	TransactionNotFound:   "Transaksi tidak ditemukan",
	TransactionNotPending: "Hanya transaksi yang menunggu persetujuan yang dapat disetujui",
	QRGenerateFailed:      "Gagal membuat QR Code. Silakan coba lagi.",
	URLRequired:           "URL tidak boleh kosong",
	QRSizeInvalid:         "Ukuran harus antara 1 dan %d piksel",
	QRSizeTooSmall:        "Ukuran terlalu kecil untuk isi ini",
	QRColorInvalid:        "Warna harus berupa kode hex seperti #000000",
	MenuEmpty:             "Tidak ada produk untuk ditampilkan dalam menu",
	InvalidInput:          "input tidak valid",
	Unauthorized:          "Tidak memiliki akses",
	Forbidden:             "Akses ditolak",
	TooManyRequests:       "Terlalu banyak permintaan",
	InvalidCredentials:    "Nama pengguna atau kata sandi salah",
	UsernameTaken:         "Nama pengguna sudah digunakan",
	CredentialsTooShort:   "Nama pengguna minimal 3 karakter dan kata sandi minimal 6 karakter",
	CredentialsRequired:   "Nama pengguna dan kata sandi harus diisi",
	InternalError:         "Terjadi kesalahan yang tidak terduga",
}
