package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ayatoki/contact-tracker-api/internal/database"
	"github.com/ayatoki/contact-tracker-api/internal/dto"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"github.com/ayatoki/contact-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type conversationTestEnv struct {
	db             *gorm.DB
	handler        *ConversationHandler
	contactService *services.ContactService
	user           *models.User
	member         models.WorkspaceMembership
	wsA            *models.Workspace
	wsB            *models.Workspace
}

func setupConversationTestEnv(t *testing.T) conversationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMembership{},
		&models.Company{},
		&models.Person{},
		&models.Tag{},
		&models.PersonTag{},
		&models.Conversation{},
		&models.ConversationParticipant{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	user := &models.User{Email: "a@example.com", PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)

	wsA := &models.Workspace{Name: "Workspace A", OwnerID: user.ID}
	require.NoError(t, db.Create(wsA).Error)
	wsB := &models.Workspace{Name: "Workspace B", OwnerID: user.ID}
	require.NoError(t, db.Create(wsB).Error)

	member := models.WorkspaceMembership{
		WorkspaceID: wsA.ID,
		UserID:      &user.ID,
		Email:       user.Email,
		Role:        models.RoleOwner,
		Status:      models.StatusActive,
		InvitedBy:   user.ID,
	}
	require.NoError(t, db.Create(&member).Error)

	contactRepo := repository.NewContactRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	contactService := services.NewContactService(contactRepo, conversationRepo)
	handler := NewConversationHandler(contactService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return conversationTestEnv{
		db:             db,
		handler:        handler,
		contactService: contactService,
		user:           user,
		member:         member,
		wsA:            wsA,
		wsB:            wsB,
	}
}

func TestConversationHandler_CreateConversation(t *testing.T) {
	env := setupConversationTestEnv(t)

	alice, err := env.contactService.CreatePerson(env.wsA.ID, services.PersonInput{FirstName: "Alice"})
	require.NoError(t, err)

	payload := map[string]interface{}{
		"subject":         "Intro call",
		"participant_ids": []uint64{alice.ID},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces/1/conversations", body, env.user.ID)
	c.Set(middleware.ContextKeyWorkspace, *env.wsA)
	c.Set(middleware.ContextKeyMembership, env.member)

	env.handler.CreateConversation(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ConversationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Intro call", response.Subject)
}

func TestConversationHandler_CreateConversation_CrossWorkspaceParticipant(t *testing.T) {
	env := setupConversationTestEnv(t)

	alice, err := env.contactService.CreatePerson(env.wsA.ID, services.PersonInput{FirstName: "Alice"})
	require.NoError(t, err)
	outsider, err := env.contactService.CreatePerson(env.wsB.ID, services.PersonInput{FirstName: "Eve"})
	require.NoError(t, err)

	payload := map[string]interface{}{
		"subject":         "Intro call",
		"participant_ids": []uint64{alice.ID, outsider.ID},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces/1/conversations", body, env.user.ID)
	c.Set(middleware.ContextKeyWorkspace, *env.wsA)
	c.Set(middleware.ContextKeyMembership, env.member)

	env.handler.CreateConversation(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "CROSS_WORKSPACE_REFERENCE", response["code"])

	// The rejected write left nothing behind
	var conversations int64
	env.db.Model(&models.Conversation{}).Count(&conversations)
	require.Zero(t, conversations)
}
