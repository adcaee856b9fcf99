package models

import "time"

// Role is one of the fixed user roles.
type Role = string

// Feature is a UI/API area gated by the permission matrix.
type Feature = string

const (
	RoleSuperUser Role = "SUPER_USER"
	RoleAdmin     Role = "ADMIN"
	RoleOperator  Role = "PETUGAS"
	RoleManager   Role = "PIMPINAN"
)

const (
	FeatureDashboard  Feature = "dashboard"
	FeatureUsers      Feature = "users"
	FeatureSheds      Feature = "kandang"
	FeatureStock      Feature = "stok"
	FeatureDailyLogs  Feature = "data-harian"
	FeatureNutrition  Feature = "nutrisi"
	FeatureEggs       Feature = "telur"
	FeatureHealth     Feature = "kesehatan"
	FeatureSales      Feature = "penjualan"
	FeatureFinance    Feature = "keuangan"
	FeatureReports    Feature = "laporan"
	FeatureAIAnalysis Feature = "ai-analysis"
	FeatureSettings   Feature = "pengaturan"
)

// Roles lists the fixed roles in display order.
var Roles = []Role{RoleSuperUser, RoleAdmin, RoleOperator, RoleManager}

// Features lists every gated feature in display order.
var Features = []Feature{
	FeatureDashboard, FeatureUsers, FeatureSheds, FeatureStock, FeatureDailyLogs,
	FeatureNutrition, FeatureEggs, FeatureHealth, FeatureSales, FeatureFinance,
	FeatureReports, FeatureAIAnalysis, FeatureSettings,
}

// RolePermission is one cell of the role x feature access matrix.
type RolePermission struct {
	Role      string    `gorm:"primaryKey;size:32" json:"role"`
	Feature   string    `gorm:"primaryKey;size:32" json:"feature"`
	Allowed   bool      `gorm:"not null" json:"allowed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
