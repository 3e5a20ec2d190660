package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/utils/response"
)

// SummaryResponse aggregates system counts for the admin dashboard
type SummaryResponse struct {
	Users             int64            `json:"users"`
	PendingActivation int64            `json:"pending_activation"`
	Scholarships      int64            `json:"scholarships"`
	Applications      int64            `json:"applications"`
	ApplicationsBy    map[string]int64 `json:"applications_by_status"`
	Reviews           int64            `json:"reviews"`
}

// Summary returns system-wide counts; admins only
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	var res SummaryResponse

	if err := h.db.Model(&model.User{}).Count(&res.Users).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}
	if err := h.db.Model(&model.User{}).Where("is_active = ?", false).Count(&res.PendingActivation).Error; err != nil {
		return response.InternalServerError(c, "Failed to count inactive users")
	}
	if err := h.db.Model(&model.Scholarship{}).Count(&res.Scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to count scholarships")
	}
	if err := h.db.Model(&model.Application{}).Count(&res.Applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to count applications")
	}
	if err := h.db.Model(&model.Review{}).Count(&res.Reviews).Error; err != nil {
		return response.InternalServerError(c, "Failed to count reviews")
	}

	res.ApplicationsBy = make(map[string]int64)
	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := h.db.Model(&model.Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return response.InternalServerError(c, "Failed to group applications")
	}
	for _, row := range rows {
		res.ApplicationsBy[row.Status] = row.Count
	}

	return response.Success(c, res)
}
