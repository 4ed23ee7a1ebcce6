package repository

import (
	"testing"

	"aippt-backend/internal/models"
)

// TestUserListFilter 测试用户列表的角色过滤与关键字搜索
func TestUserListFilter(t *testing.T) {
	db := setupTestDB(t)
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	db.Exec("DELETE FROM users")
	repo := NewUserRepository(db)

	users := []models.User{
		{Username: "admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin},
		{Username: "zhangsan", Email: "zhangsan@example.com", Password: "x", Role: models.RoleUser},
		{Username: "lisi", Email: "lisi@company.cn", Password: "x", Role: models.RoleUser},
	}
	for i := range users {
		if err := repo.CreateUser(&users[i]); err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
	}

	// 角色过滤
	admins, total, err := repo.List(0, 10, models.RoleAdmin, "")
	if err != nil {
		t.Fatalf("角色过滤查询失败: %v", err)
	}
	if total != 1 || len(admins) != 1 || admins[0].Username != "admin" {
		t.Errorf("期望1个管理员，实际 total=%d %+v", total, admins)
	}

	// 关键字同时匹配用户名和邮箱
	byName, total, err := repo.List(0, 10, "", "zhang")
	if err != nil {
		t.Fatalf("关键字搜索失败: %v", err)
	}
	if total != 1 || byName[0].Username != "zhangsan" {
		t.Errorf("用户名搜索错误: total=%d %+v", total, byName)
	}
	byEmail, total, err := repo.List(0, 10, "", "company.cn")
	if err != nil {
		t.Fatalf("邮箱搜索失败: %v", err)
	}
	if total != 1 || byEmail[0].Username != "lisi" {
		t.Errorf("邮箱搜索错误: total=%d %+v", total, byEmail)
	}

	count, err := repo.Count()
	if err != nil || count != 3 {
		t.Errorf("期望用户总数3，实际 %d (err=%v)", count, err)
	}
}
