// Copyright Contributors to the KubeTask project

// Command manager runs the KubeTask controller: it watches DocsRun,
// CodeRun, and CronRun custom resources and reconciles them into
// ConfigMaps, Jobs, and PersistentVolumeClaims.
package main

import (
	"context"
	"flag"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
	"github.com/kubetask-io/orchestrator/internal/config"
	"github.com/kubetask-io/orchestrator/internal/controller"
	"github.com/kubetask-io/orchestrator/internal/render"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(kubetaskv1alpha1.AddToScheme(scheme))
}

func main() {
	var metricsAddr string
	var probeAddr string
	var enableLeaderElection bool
	var configPath string
	var configNamespace string
	var configName string

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. Enabling this will ensure there is only one active controller manager.")
	flag.StringVar(&configPath, "config", "", "Path to a mounted KubeTaskConfig file; cluster object or defaults are used if empty or missing.")
	flag.StringVar(&configNamespace, "config-namespace", "kubetask-system", "Namespace of the fallback KubeTaskConfig object.")
	flag.StringVar(&configName, "config-name", "kubetask-config", "Name of the fallback KubeTaskConfig object.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	log := ctrl.Log.WithName("setup")

	restConfig := ctrl.GetConfigOrDie()

	bootstrapClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		log.Error(err, "unable to create bootstrap client")
		os.Exit(1)
	}

	cfg, err := config.Load(context.Background(), bootstrapClient, configNamespace, configName, configPath)
	if err != nil {
		log.Error(err, "unable to load configuration")
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "kubetask-orchestrator-leader",
	})
	if err != nil {
		log.Error(err, "unable to start manager")
		os.Exit(1)
	}

	renderer := render.New(render.NewEmbedSource())

	if err := (&controller.DocsRunReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Config:   cfg,
		Renderer: renderer,
	}).SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create controller", "controller", "DocsRun")
		os.Exit(1)
	}

	if err := (&controller.CodeRunReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Config:   cfg,
		Renderer: renderer,
	}).SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create controller", "controller", "CodeRun")
		os.Exit(1)
	}

	if err := (&controller.CronRunReconciler{
		Client: mgr.GetClient(),
		Scheme: mgr.GetScheme(),
	}).SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create controller", "controller", "CronRun")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		log.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		log.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	log.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		log.Error(err, "problem running manager")
		os.Exit(1)
	}
}
