package dto

// QRCodeCreateReq 生成 QR 码请求
type QRCodeCreateReq struct {
	Name    string `json:"name" binding:"max=100"`
	Content string `json:"content" binding:"required"`
	Type    string `json:"type"`
}

// StorageImportReq 导入设备存储，格式同浏览器 localStorage 导出
type StorageImportReq struct {
	Entries map[string]string `json:"entries" binding:"required"`
}

// StorageImportResp 导入结果
type StorageImportResp struct {
	Written        int `json:"written"`
	LegacyImported int `json:"legacy_imported"`
}
