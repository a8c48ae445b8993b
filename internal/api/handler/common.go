package handler

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/response"
	"ReaView/internal/pkg/util"
	"ReaView/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的正整数 ID，失败时已写回响应
func paramID(c *gin.Context, key string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

// bindQuery 绑定并校验查询参数，失败时已写回响应
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, err)
		return false
	}
	if err := util.ValidateDTO(dst); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return false
	}
	return true
}

// bindPage skip/limit 分页参数，limit 为 0 时由服务层取默认值
func bindPage(c *gin.Context) (int, int, bool) {
	var page dto.PageQueryDTO
	if !bindQuery(c, &page) {
		return 0, 0, false
	}
	return page.Skip, page.Limit, true
}
