package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-planner/internal/deadline"
	"task-planner/internal/model"
	"task-planner/internal/service"
	"task-planner/internal/tasklist"
)

type taskRequest struct {
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	IsCompleted *bool   `json:"isCompleted"`
}

func (r taskRequest) input() (service.TaskInput, error) {
	in := service.TaskInput{
		Name:        r.Name,
		Description: r.Description,
		DueDate:     r.Date,
		IsCompleted: r.IsCompleted,
	}
	if r.CategoryID != "" {
		id, err := uuid.Parse(r.CategoryID)
		if err != nil {
			return in, err
		}
		in.CategoryID = id
	}
	return in, nil
}

// taskView is a task with its deadline state evaluated at response time.
type taskView struct {
	model.Task
	IsOverdue bool   `json:"isOverdue"`
	TimeLeft  string `json:"timeLeft,omitempty"`
}

func newTaskView(task model.Task, now time.Time) taskView {
	view := taskView{Task: task}
	due, err := deadline.ParseDate(task.DueDate, now.Location())
	if err != nil {
		return view
	}
	view.IsOverdue = deadline.IsOverdue(now, due, task.IsCompleted)
	view.TimeLeft = deadline.Evaluate(now, due).String()
	return view
}

func taskViews(tasks []model.Task, now time.Time) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, now))
	}
	return views
}

func resultViews(res tasklist.Result, now time.Time) gin.H {
	views := make([]taskView, 0, len(res.Items))
	for _, it := range res.Items {
		views = append(views, taskView{
			Task:      it.Task,
			IsOverdue: it.Overdue,
			TimeLeft:  deadline.Evaluate(now, it.Due).String(),
		})
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []tasklist.Skipped{}
	}
	return gin.H{"tasks": views, "skipped": skipped}
}

func RegisterTaskRoutes(group *gin.RouterGroup, tasks service.TaskServiceInterface, summaries service.SummaryServiceInterface, logger *log.Logger) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, tasks, logger) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, tasks, logger) })
	group.GET("/tasks/today", func(c *gin.Context) { GetFilteredTasks(c, tasks, tasklist.FilterToday, logger) })
	group.GET("/tasks/completed", func(c *gin.Context) { GetTasksByStatus(c, tasks, true, logger) })
	group.GET("/tasks/unfinished", func(c *gin.Context) { GetTasksByStatus(c, tasks, false, logger) })
	group.GET("/tasks/summary", func(c *gin.Context) { GetTaskSummary(c, summaries, logger) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTask(c, tasks, logger) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, tasks, logger) })
	group.PATCH("/tasks/:id/status", func(c *gin.Context) { ToggleTaskStatus(c, tasks, logger) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, tasks, logger) })
	group.GET("/categories/:id/tasks", func(c *gin.Context) { GetCategoryTasks(c, tasks, logger) })
}

func parseViewQuery(c *gin.Context, fallback tasklist.Filter) (service.ViewQuery, bool) {
	q := service.ViewQuery{Filter: fallback, Search: c.Query("q")}
	if raw := c.Query("filter"); raw != "" {
		f, err := tasklist.ParseFilter(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return q, false
		}
		q.Filter = f
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return q, false
		}
		q.Limit = n
	}
	return q, true
}

// GetTasks returns every task of the user, or the filtered view when a
// filter or search term is given.
func GetTasks(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	if c.Query("filter") != "" || c.Query("q") != "" || c.Query("limit") != "" {
		GetFilteredTasks(c, tasks, tasklist.FilterAll, logger)
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	list, err := tasks.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskViews(list, tasks.Now())})
}

func GetFilteredTasks(c *gin.Context, tasks service.TaskServiceInterface, fallback tasklist.Filter, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	q, ok := parseViewQuery(c, fallback)
	if !ok {
		return
	}
	res, err := tasks.View(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resultViews(res, tasks.Now()))
}

func GetCategoryTasks(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	q, ok := parseViewQuery(c, tasklist.FilterAll)
	if !ok {
		return
	}
	res, err := tasks.CategoryView(c.Request.Context(), userID, categoryID, q)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resultViews(res, tasks.Now()))
}

func GetTasksByStatus(c *gin.Context, tasks service.TaskServiceInterface, completed bool, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	list, err := tasks.ListByStatus(c.Request.Context(), userID, completed)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskViews(list, tasks.Now())})
}

func GetTaskSummary(c *gin.Context, summaries service.SummaryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := summaries.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func GetTask(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, err := tasks.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskView(*task, tasks.Now()))
}

func CreateTask(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := bindTask(c)
	if !ok {
		return
	}
	task, err := tasks.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskView(*task, tasks.Now()))
}

func UpdateTask(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	input, ok := bindTask(c)
	if !ok {
		return
	}
	task, err := tasks.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskView(*task, tasks.Now()))
}

func ToggleTaskStatus(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, err := tasks.ToggleStatus(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskView(*task, tasks.Now()))
}

func DeleteTask(c *gin.Context, tasks service.TaskServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := tasks.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindTask(c *gin.Context) (service.TaskInput, bool) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.TaskInput{}, false
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
		return service.TaskInput{}, false
	}
	return input, true
}
