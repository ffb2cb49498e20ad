package runtime

import (
	"context"
	"testing"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestKubernetesRuntime_Start_CreatesJob(t *testing.T) {
	clientset := fake.NewClientset()

	rt := &KubernetesRuntime{
		clientset: clientset,
		config: KubernetesConfig{
			Namespace:          "test-ns",
			Image:              "python:3.11-slim",
			DefaultCPULimit:    "500m",
			DefaultMemoryLimit: "256Mi",
		},
	}

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{
		Interpreter: "python",
		Script:      "/fns/echo/main.py",
		Env:         map[string]string{"OT_PROGRAM_NAME": "echo-fn"},
	})
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if handle == nil {
		t.Fatal("expected handle to be non-nil")
	}

	jobs, err := clientset.BatchV1().Jobs("test-ns").List(ctx, metav1.ListOptions{})
	if err != nil {
		t.Fatalf("failed to list jobs: %v", err)
	}
	if len(jobs.Items) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs.Items))
	}

	container := jobs.Items[0].Spec.Template.Spec.Containers[0]
	if container.Image != "python:3.11-slim" {
		t.Errorf("expected interpreter image, got %s", container.Image)
	}
	if len(container.Command) != 2 || container.Command[0] != "python" || container.Command[1] != "/fns/echo/main.py" {
		t.Errorf("unexpected command: %v", container.Command)
	}
	if len(container.Env) != 1 || container.Env[0].Name != "OT_PROGRAM_NAME" {
		t.Errorf("unexpected env: %v", container.Env)
	}
	if jobs.Items[0].Labels["app.kubernetes.io/managed-by"] != "funcplane" {
		t.Error("expected managed-by label to be 'funcplane'")
	}
}

func TestKubernetesRuntime_Start_WithServiceAccount(t *testing.T) {
	clientset := fake.NewClientset()

	rt := &KubernetesRuntime{
		clientset: clientset,
		config: KubernetesConfig{
			Namespace:          "test-ns",
			Image:              "python:3.11-slim",
			ServiceAccount:     "my-sa",
			DefaultCPULimit:    "500m",
			DefaultMemoryLimit: "256Mi",
		},
	}

	ctx := context.Background()
	if _, err := rt.Start(ctx, StartOptions{Interpreter: "python", Script: "main.py"}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	jobs, _ := clientset.BatchV1().Jobs("test-ns").List(ctx, metav1.ListOptions{})
	if jobs.Items[0].Spec.Template.Spec.ServiceAccountName != "my-sa" {
		t.Errorf("expected service account 'my-sa', got '%s'", jobs.Items[0].Spec.Template.Spec.ServiceAccountName)
	}
}

func TestKubernetesHandle_Stop_DeletesJob(t *testing.T) {
	existingJob := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "test-job",
			Namespace: "test-ns",
		},
	}
	clientset := fake.NewClientset(existingJob)

	handle := &KubernetesHandle{
		clientset: clientset,
		namespace: "test-ns",
		jobName:   "test-job",
	}

	ctx := context.Background()
	if err := handle.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	jobs, _ := clientset.BatchV1().Jobs("test-ns").List(ctx, metav1.ListOptions{})
	if len(jobs.Items) != 0 {
		t.Errorf("expected job to be deleted, found %d", len(jobs.Items))
	}
}
