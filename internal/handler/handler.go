package handler

import (
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/pkg/errors"
)

// pathInt64 解析路径里的数字参数
func pathInt64(c *app.RequestContext, name string, def errors.Definition) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, def
	}
	return id, nil
}
