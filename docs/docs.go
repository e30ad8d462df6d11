// Package docs 由 swag init 生成，描述 ICD201 课程规划 API
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {"get": {"tags": ["系统"], "summary": "连接握手", "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["系统"], "summary": "健康检查", "responses": {"200": {"description": "OK"}}}},
        "/units": {
            "get": {"tags": ["单元"], "summary": "单元列表", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["单元"], "summary": "创建单元", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/units/{id}": {
            "get": {"tags": ["单元"], "summary": "单元详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["单元"], "summary": "更新单元", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["单元"], "summary": "删除单元", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/units/{id}/lessons": {
            "post": {"tags": ["课时"], "summary": "添加课时", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/units/{id}/lessons/{lessonId}": {
            "put": {"tags": ["课时"], "summary": "更新课时", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "lessonId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["课时"], "summary": "删除课时", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "lessonId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/resources": {
            "get": {"tags": ["资源"], "summary": "资源列表", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["资源"], "summary": "创建资源", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/resources/{id}": {
            "get": {"tags": ["资源"], "summary": "资源详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["资源"], "summary": "更新资源", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["资源"], "summary": "删除资源", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/resources/{id}/usage": {
            "get": {"tags": ["资源"], "summary": "资源使用情况", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/calendar/events": {
            "get": {"tags": ["日历"], "summary": "日历事件列表", "parameters": [{"type": "integer", "name": "unit_id", "in": "query"}, {"type": "string", "name": "resource_id", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["日历"], "summary": "创建日历事件", "responses": {"201": {"description": "Created"}}}
        },
        "/calendar/events/{id}": {
            "get": {"tags": ["日历"], "summary": "日历事件详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["日历"], "summary": "更新日历事件", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["日历"], "summary": "删除日历事件", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/calendar/weeks": {"get": {"tags": ["日历"], "summary": "周视图", "responses": {"200": {"description": "OK"}}}},
        "/calendar/day/{date}": {"get": {"tags": ["日历"], "summary": "某天的事件", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/calendar/conflicts": {"get": {"tags": ["日历"], "summary": "资源冲突", "responses": {"200": {"description": "OK"}}}},
        "/settings": {
            "get": {"tags": ["设置"], "summary": "课程设置", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["设置"], "summary": "更新课程设置", "responses": {"200": {"description": "OK"}}}
        },
        "/stats/overview": {"get": {"tags": ["统计"], "summary": "课程进度总览", "responses": {"200": {"description": "OK"}}}},
        "/export/pdf": {"post": {"tags": ["导出"], "summary": "导出 PDF", "produces": ["application/pdf"], "responses": {"200": {"description": "OK"}}}},
        "/export/xlsx": {"post": {"tags": ["导出"], "summary": "导出 Excel", "responses": {"200": {"description": "OK"}}}},
        "/export/preview": {"post": {"tags": ["导出"], "summary": "导出预览", "responses": {"200": {"description": "OK"}}}},
        "/export/history": {"get": {"tags": ["导出"], "summary": "导出历史", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8001",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "ICD201 课程规划 API",
	Description:      "ICD201 课程方案的单元、资源、日历和导出接口",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
